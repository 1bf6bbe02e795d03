package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"hr-faq-be/internal/model"
	"hr-faq-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, database.PoolConfig{}, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	departmentsPath := getEnv("SEED_DEPARTMENTS_PATH", "data/departments.tsv")
	employeesPath := getEnv("SEED_EMPLOYEES_PATH", "data/employees.tsv")

	log.Println("Seeding Departments...")
	departments, err := readDepartments(departmentsPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if err := SeedDepartments(db, departments); err != nil {
		log.Fatalf("Error: %v", err)
	}

	log.Println("Seeding Employees...")
	employees, err := readEmployees(employeesPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if err := SeedEmployees(db, employees); err != nil {
		log.Fatalf("Error: %v", err)
	}

	log.Printf("Seeding completed! %d departments, %d employees", len(departments), len(employees))
}

// SeedDepartments upserts by primary key so the seeder can be re-run.
func SeedDepartments(db *gorm.DB, departments []model.Department) error {
	if len(departments) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "department_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"department_name", "department_head"}),
	}).Create(&departments).Error
}

func SeedEmployees(db *gorm.DB, employees []model.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	return db.Omit("Department").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "department_id", "remaining_vacations"}),
	}).Create(&employees).Error
}

// readDepartments expects: department_id, department_name, department_head
func readDepartments(path string) ([]model.Department, error) {
	rows, err := readTSV(path, 3)
	if err != nil {
		return nil, err
	}

	out := make([]model.Department, 0, len(rows))
	for i, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad department_id %q", path, i+2, row[0])
		}
		out = append(out, model.Department{Id: id, Name: row[1], Head: row[2]})
	}
	return out, nil
}

// readEmployees expects: employee_id, name, department_id, remaining_vacations
func readEmployees(path string) ([]model.Employee, error) {
	rows, err := readTSV(path, 4)
	if err != nil {
		return nil, err
	}

	out := make([]model.Employee, 0, len(rows))
	for i, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad employee_id %q", path, i+2, row[0])
		}
		deptID, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad department_id %q", path, i+2, row[2])
		}
		vacations, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad remaining_vacations %q", path, i+2, row[3])
		}
		out = append(out, model.Employee{Id: id, Name: row[1], DepartmentId: deptID, RemainingVacations: vacations})
	}
	return out, nil
}

// readTSV skips the header row and trims every field.
func readTSV(path string, columns int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = columns

	var rows [][]string
	header := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if header {
			header = false
			continue
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
