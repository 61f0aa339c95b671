// Command export writes a bulk timesheet workbook to disk without going
// through the web server, one sheet per non-empty period.
//
//	export -db worktime.db -user alice -from 2024-01-01 -to 2024-03-31 -mode bi-weekly -out export.xlsx
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"gorm.io/gorm"

	"worktime.app/worktime/core"
	"worktime.app/worktime/export"
	"worktime.app/worktime/model"
	"worktime.app/worktime/utils"
)

func main() {
	dbPath := flag.String("db", "worktime.db", "path to the sqlite database")
	username := flag.String("user", "", "username to export")
	from := flag.String("from", "", "range start (YYYY-MM-DD)")
	to := flag.String("to", "", "range end (YYYY-MM-DD)")
	modeStr := flag.String("mode", "", "period mode: weekly, bi-weekly, monthly")
	out := flag.String("out", "export.xlsx", "output file")
	lenient := flag.Bool("lenient", false, "treat unparseable clock values as 00:00")
	flag.Parse()

	mode, err := core.ParseMode(*modeStr)
	if err != nil {
		log.Fatal(err)
	}

	db, err := core.Open(*dbPath, core.LogLevelError)
	if err != nil {
		log.Fatal(err)
	}
	defer core.Close(db)

	var user model.User
	if err := db.Where("username = ?", *username).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("no such user: %s", *username)
		}
		log.Fatal(err)
	}

	policy := core.PolicyStrict
	if *lenient {
		policy = core.PolicyLenient
	}

	units, err := core.BuildBulkExport(db, user.ID, *from, *to, mode, policy)
	if err != nil {
		log.Fatal(err)
	}
	if len(units) == 0 {
		log.Fatalf("no sessions between %s and %s", *from, *to)
	}

	sheets, err := export.UnitSheets(units, policy)
	if err != nil {
		log.Fatal(err)
	}

	workbook, err := export.WriteWorkbook(sheets)
	if err != nil {
		log.Fatal(err)
	}
	defer workbook.Close()

	if err := workbook.SaveAs(*out); err != nil {
		log.Fatal(err)
	}

	total := 0
	for _, unit := range units {
		total += unit.TotalMinutes
	}
	fmt.Printf("wrote %d periods (%s net) to %s\n", len(units), utils.FormatSignedMinutes(total), *out)
}
