//go:build ignore

// Creates (or resets) the initial admin account.
//
//	go run scripts/create_admin.go -email admin@club.org -password secret
package main

import (
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/mabarril/api-desbravador/config"
	"github.com/mabarril/api-desbravador/database"
	"github.com/mabarril/api-desbravador/models"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	name := flag.String("name", "Administrator", "display name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var user models.User
	err = db.Where("email = ?", *email).First(&user).Error
	if err == nil {
		user.Password = string(hash)
		user.Role = models.RoleAdmin
		if err := db.Save(&user).Error; err != nil {
			log.Fatalf("update admin: %v", err)
		}
		log.Printf("admin %s updated (id=%d)", *email, user.ID)
		return
	}

	user = models.User{
		Name:     *name,
		Email:    *email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin %s created (id=%d)", *email, user.ID)
}
