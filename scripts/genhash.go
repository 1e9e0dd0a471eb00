// One-off: go run scripts/genhash.go <password> [cost]
// Prints a bcrypt hash suitable for seeding the users table.
package main

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := "admin"
	cost := bcrypt.DefaultCost
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, "cost must be a number")
			os.Exit(1)
		}
		cost = n
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		panic(err)
	}
	fmt.Print(string(h))
}
