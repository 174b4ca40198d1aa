// Command admin is an operator CLI for account maintenance: creating
// users, listing them with their cached presence, and removing chats.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"chatter/backend/internal/auth"
	"chatter/backend/internal/config"
	"chatter/backend/internal/models"
	"chatter/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	store := storage.NewService(db, rdb)

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "create-user":
		if len(os.Args) != 5 {
			fmt.Println("Usage: admin create-user <username> <email> <password>")
			os.Exit(1)
		}
		if err := createUser(store, os.Args[2], os.Args[3], os.Args[4]); err != nil {
			log.Fatalf("Error creating user: %v", err)
		}
	case "list-users":
		if err := listUsers(store); err != nil {
			log.Fatalf("Error listing users: %v", err)
		}
	case "delete-chat":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin delete-chat <chat_id>")
			os.Exit(1)
		}
		id, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			fmt.Println("Invalid chat ID. Please provide an integer.")
			os.Exit(1)
		}
		if err := store.DeleteChat(uint(id)); err != nil {
			log.Fatalf("Error deleting chat: %v", err)
		}
		fmt.Printf("Chat %d has been deleted.\n", id)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <create-user|list-users|delete-chat> [args]")
	os.Exit(1)
}

func createUser(store storage.Storage, username, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if err := store.CreateUser(user); err != nil {
		return err
	}
	fmt.Printf("User %s created with ID %d.\n", username, user.ID)
	return nil
}

func listUsers(store storage.Storage) error {
	users, err := store.ListUsers(0, 100)
	if err != nil {
		return err
	}
	for _, user := range users {
		presence, err := store.Presence(user.ID)
		status := "offline"
		if err == nil && presence.IsOnline {
			status = "online"
		}
		fmt.Printf("%4d  %-20s %-30s %s\n", user.ID, user.Username, user.Email, status)
	}
	return nil
}
