package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"coworking_app_go/config"
	"coworking_app_go/db"
	"coworking_app_go/services"

	"golang.org/x/term"
	"gorm.io/gorm"
)

// Creates an IT analyst or a room admin together with its registration.
func main() {
	cfg := config.Load()

	if err := db.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label)
		value, _ := reader.ReadString('\n')
		return strings.TrimSpace(value)
	}

	fmt.Println("=== Create Staff User ===")
	fmt.Println()

	role := strings.ToLower(prompt("Role (analyst/admin): "))
	if role != services.RoleAnalyst && role != services.RoleAdmin {
		log.Fatal("Role must be analyst or admin")
	}
	name := prompt("Name: ")
	email := prompt("Email: ")
	taxID := prompt("CPF: ")
	username := prompt("Username: ")

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password := string(passwordBytes)
	fmt.Println()

	if err := services.ValidatePassword(password); err != nil {
		log.Fatal(err)
	}

	var staffID string
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		reg, err := services.CreateRegistration(tx, services.RegistrationInput{Name: &name, Email: &email, TaxID: &taxID})
		if err != nil {
			return err
		}
		in := services.StaffInput{RegistrationID: &reg.ID, Username: &username, Password: &password}
		if role == services.RoleAnalyst {
			analyst, err := services.CreateAnalyst(tx, in)
			if err != nil {
				return err
			}
			staffID = analyst.ID
			return nil
		}
		admin, err := services.CreateRoomAdmin(tx, in)
		if err != nil {
			return err
		}
		staffID = admin.ID
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Println()
	fmt.Println("✓ User created successfully!")
	fmt.Printf("  ID: %s\n", staffID)
	fmt.Printf("  Role: %s\n", role)
	fmt.Printf("  Username: %s\n", strings.ToLower(username))
	fmt.Println()
	fmt.Printf("Log in with POST /api/auth/login/%s\n", role)
}
