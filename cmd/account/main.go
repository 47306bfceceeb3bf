// This script is a small convenience tool for manipulating user accounts in
// the configured server database.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/Wickedviruz/Wicked-MMO-server/internal/core"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/auth"
	"github.com/Wickedviruz/Wicked-MMO-server/internal/core/data"
)

var (
	configFlag = flag.String("config", "./", "Path to the directory containing the server config file")
	add        = flag.Bool("add", false, "Add an account.")
	del        = flag.Bool("delete", false, "Delete an account permanently.")
	help       = flag.Bool("help", false, "Print this usage info.")
)

func main() {
	flag.Parse()

	if help != nil && *help {
		flag.Usage()
		os.Exit(0)
	}

	config := core.LoadConfig(*configFlag)
	db, err := data.Open(config)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	// defer so os.Exit doesn't prevent our clean up.
	retCode := 0
	defer func() {
		if err := data.Shutdown(db); err != nil {
			fmt.Println(err.Error())
		}
		os.Exit(retCode)
	}()

	switch {
	case add != nil && *add:
		username := scanInput("Username")
		password := scanInput("Password")
		email := scanInput("Email")
		if err := addAccount(db, username, password, email); err != nil {
			retCode = 1
			fmt.Println(err.Error())
		}
	case del != nil && *del:
		username := scanInput("Username")
		if err := deleteAccount(db, username); err != nil {
			retCode = 1
			fmt.Println(err.Error())
		}
	default:
		flag.Usage()
		retCode = 1
	}
}

func scanInput(prompt string) string {
	fmt.Printf("%s: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()
	return scanner.Text()
}

func addAccount(db *gorm.DB, username, password, email string) error {
	account, err := auth.CreateAccount(db, username, password, email)
	if err != nil {
		return fmt.Errorf("failed to create account: %v", err)
	}
	fmt.Println("created account with ID:", account.ID)
	return nil
}

func deleteAccount(db *gorm.DB, username string) error {
	deleted, err := data.DeleteAccount(db, username)
	if err != nil {
		return fmt.Errorf("failed to delete account: %v", err)
	}
	if !deleted {
		return fmt.Errorf("no account named %q", username)
	}
	fmt.Println("deleted account")
	return nil
}
