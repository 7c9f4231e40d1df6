package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/KooroshTorabi/meal-planner-sub002/internal/config"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/db"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/model"
	"github.com/KooroshTorabi/meal-planner-sub002/internal/repository"
)

// Development seed: one user per role, a handful of residents and
// today's breakfast orders. Existing rows are left alone.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Resident{},
		&model.MealOrder{},
		&model.OrderItem{},
		&model.Alert{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	residentRepo := repository.NewResidentRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)

	users := []struct {
		name, email, password string
		role                  model.Role
	}{
		{"Admin", "admin@example.com", "admin-secret", model.RoleAdmin},
		{"Clara Caregiver", "clara@example.com", "clara-secret", model.RoleCaregiver},
		{"Kim Kitchen", "kim@example.com", "kim-secret", model.RoleKitchen},
	}
	for _, u := range users {
		if _, err := userRepo.FindByEmail(ctx, u.email); err == nil {
			continue
		} else if err != gorm.ErrRecordNotFound {
			log.Fatalf("check user %s: %v", u.email, err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), 10)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		if err := userRepo.Create(ctx, &model.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: string(hash),
			Role:         u.role,
			Active:       true,
		}); err != nil {
			log.Fatalf("create user %s: %v", u.email, err)
		}
		log.Printf("created user %s (%s)", u.email, u.role)
	}

	residents := []model.Resident{
		{Name: "Margarethe Huber", RoomNumber: "101", TableNumber: "1", Station: "A", DietaryRestrictions: "diabetic", Active: true},
		{Name: "Josef Brandner", RoomNumber: "102", TableNumber: "1", Station: "A", Aversions: "fish", HighCalorie: true, Active: true},
		{Name: "Elfriede Maier", RoomNumber: "205", TableNumber: "4", Station: "B", SpecialNotes: "pureed food only", Active: true},
		{Name: "Rudolf Steiner", RoomNumber: "210", TableNumber: "4", Station: "B", Active: false},
	}
	seededResidents := make([]model.Resident, 0, len(residents))
	for _, r := range residents {
		existing, _, err := residentRepo.Search(ctx, repository.ResidentFilter{RoomNumber: r.RoomNumber, Limit: 1})
		if err != nil {
			log.Fatalf("check resident room %s: %v", r.RoomNumber, err)
		}
		if len(existing) > 0 {
			seededResidents = append(seededResidents, existing[0])
			continue
		}
		resident := r
		if err := residentRepo.Create(ctx, &resident); err != nil {
			log.Fatalf("create resident %s: %v", r.Name, err)
		}
		seededResidents = append(seededResidents, resident)
		log.Printf("created resident %s (room %s)", resident.Name, resident.RoomNumber)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, resident := range seededResidents {
		if !resident.Active {
			continue
		}
		existing, _, err := orderRepo.List(ctx, repository.OrderFilter{
			ResidentID: resident.ID,
			Date:       &today,
			MealType:   model.MealTypeBreakfast,
			Limit:      1,
		})
		if err != nil {
			log.Fatalf("check orders for resident %d: %v", resident.ID, err)
		}
		if len(existing) > 0 {
			continue
		}
		order := model.MealOrder{
			ResidentID: resident.ID,
			Date:       today,
			MealType:   model.MealTypeBreakfast,
			Status:     model.OrderStatusPending,
			Items: []model.OrderItem{
				{Name: "oatmeal", Quantity: decimal.NewFromInt(1)},
				{Name: "orange juice", Quantity: decimal.NewFromInt(1)},
			},
		}
		if err := orderRepo.Create(ctx, &order); err != nil {
			log.Fatalf("create order for resident %d: %v", resident.ID, err)
		}
	}

	log.Println("Seed complete")
}
