// Command seed migrates the schema and creates user accounts. It replaces
// any implicit first-boot seeding: an operator runs it once per deployment
// and again whenever a user is added.
//
//	seed -db worktime.db -users alice,bob
//
// Generated initial passwords are printed once and stored only as bcrypt
// hashes.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"worktime.app/worktime/core"
	"worktime.app/worktime/model"
)

func main() {
	dbPath := flag.String("db", "worktime.db", "path to the sqlite database")
	users := flag.String("users", "", "comma-separated usernames to create")
	flag.Parse()

	db, err := core.Open(*dbPath, core.LogLevelInfo)
	if err != nil {
		log.Fatal(err)
	}
	defer core.Close(db)

	for _, username := range strings.Split(*users, ",") {
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}

		var count int64
		if err := db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			log.Fatal(err)
		}
		if count > 0 {
			fmt.Printf("%s: already exists, skipped\n", username)
			continue
		}

		password := uuid.NewString()
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}

		user := model.User{
			Username:         username,
			PasswordHash:     string(hash),
			TimesheetMode:    model.DefaultTimesheetMode,
			DefaultArrival:   model.DefaultArrival,
			DefaultDeparture: model.DefaultDeparture,
		}
		user.SetWorkingDayMask([]int{0, 1, 2, 3, 4})

		if err := db.Create(&user).Error; err != nil {
			log.Fatal(err)
		}

		fmt.Printf("%s: created with initial password %s\n", username, password)
	}
}
