package main

import (
	"context"
	"flag"

	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/services"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
	"github.com/sirupsen/logrus"
)

// seed creates a business with an owner and a staff account.
func main() {
	username := flag.String("business", "demo-coffee", "business username")
	name := flag.String("name", "Demo Coffee", "business display name")
	password := flag.String("password", "change-me-please", "password for the seeded accounts")
	admin := flag.Bool("admin", false, "also create a platform admin account")
	flag.Parse()

	config, err := infrastructures.LoadConfig(context.Background())
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	infrastructures.ConfigureLogger(config)

	db, err := infrastructures.NewDatabase(config)
	if err != nil {
		logrus.Fatalf("Failed to connect database: %v", err)
	}

	accountService := services.NewAccountService(db, infrastructures.NewValidator())

	business, err := accountService.CreateBusiness(&models.BusinessCreateRequest{
		Username: *username,
		Name:     *name,
	})
	if err != nil {
		logrus.Fatalf("Failed to create business: %v", err)
	}

	businessID := business.ID.String()
	accounts := []models.AccountCreateRequest{
		{Username: *username + "-owner", Password: *password, Role: models.AccountRoleOwner, BusinessID: &businessID},
		{Username: *username + "-staff", Password: *password, Role: models.AccountRoleStaff, BusinessID: &businessID},
	}
	if *admin {
		accounts = append(accounts, models.AccountCreateRequest{Username: "admin", Password: *password, Role: models.AccountRoleAdmin})
	}

	for i := range accounts {
		account, err := accountService.CreateAccount(&accounts[i])
		if err != nil {
			logrus.Fatalf("Failed to create account %s: %v", accounts[i].Username, err)
		}
		logrus.WithFields(logrus.Fields{
			"username": account.Username,
			"role":     account.Role,
		}).Info("account created")
	}

	logrus.WithField("business", business.Username).Info("seed complete")
}
