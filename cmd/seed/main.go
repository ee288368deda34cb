package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"venuehub/internal/database"
	"venuehub/internal/domain"
	"venuehub/internal/modules/booking"
	"venuehub/internal/modules/notification"
	"venuehub/internal/pkg/jwt"
	"venuehub/internal/repository"

	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type seedVenue struct {
	name  string
	city  string
	halls []domain.Hall
}

func main() {
	log := logrus.StandardLogger()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "venuehub.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed: ", err)
	}
	if err := notification.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate notifications failed: ", err)
	}

	log.Info("Cleaning old data...")
	for _, table := range []string{"notifications", "messages", "bookings", "hall_blocked_dates", "halls", "venues", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clean %s: %v", table, err)
		}
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	venues := repository.NewVenueRepository(db)

	// ================== USERS ==================
	log.Info("Creating users...")
	mkUser := func(email, name, password string, role domain.UserRole) *domain.User {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		u := &domain.User{Email: email, Name: name, PasswordHash: string(hash), Role: role}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create user %s: %v", email, err)
		}
		return u
	}

	admin := mkUser("admin@venuehub.local", "Admin", "admin123", domain.RoleAdmin)
	owners := []*domain.User{
		mkUser("aidar@grandpalace.kz", "Aidar", "owner123", domain.RoleVenueHolder),
		mkUser("gulnaz@riverside.kz", "Gulnaz", "owner123", domain.RoleVenueHolder),
	}
	planners := []*domain.User{
		mkUser("asel@mail.kz", "Asel", "planner123", domain.RolePlanner),
		mkUser("bekzat@gmail.com", "Bekzat", "planner123", domain.RolePlanner),
	}

	// ================== VENUES ==================
	log.Info("Creating venues and halls...")
	catalog := []seedVenue{
		{name: "Grand Palace", city: "Almaty", halls: []domain.Hall{
			{Name: "Crystal Hall", Capacity: 300, Price: 450000, DepositPercentage: 30},
			{Name: "Garden Terrace", Capacity: 120, Price: 200000, DepositPercentage: 50},
		}},
		{name: "Riverside Loft", city: "Astana", halls: []domain.Hall{
			{Name: "Loft", Capacity: 80, Price: 150000, DepositPercentage: 100},
		}},
	}

	var halls []domain.Hall
	for i, sv := range catalog {
		v := &domain.Venue{
			OwnerUserID: owners[i%len(owners)].ID,
			Name:        sv.name,
			Slug:        slug.Make(sv.name + " " + sv.city),
			City:        sv.city,
		}
		if err := venues.CreateVenue(ctx, v); err != nil {
			log.Fatalf("create venue %s: %v", sv.name, err)
		}
		for _, h := range sv.halls {
			h.VenueID = v.ID
			if err := venues.CreateHall(ctx, &h); err != nil {
				log.Fatalf("create hall %s: %v", h.Name, err)
			}
			halls = append(halls, h)
		}
	}

	// ================== BOOKINGS ==================
	log.Info("Creating booking requests...")
	svc := booking.NewService(
		repository.NewBookingRepository(db), venues, repository.NewBlockedDateRepository(db),
		repository.NewMessageRepository(db), nil, log,
		booking.Config{ServiceFeePercent: booking.DefaultServiceFeePercent},
	)

	firstDay := domain.DateOf(time.Now()).AddDays(30)
	for i, h := range halls {
		for j, p := range planners {
			// both planners ask for the same day so accepting one shows conflict resolution
			start := firstDay.AddDays(i * 7)
			var end *domain.Date
			if j == 1 && i == 0 {
				e := start.AddDays(1)
				end = &e
			}
			b, err := svc.CreateBooking(ctx, booking.CreateBookingInput{PlannerID: p.ID, HallID: h.ID, StartDate: start, EndDate: end})
			if err != nil {
				log.Fatalf("create booking: %v", err)
			}
			log.WithFields(logrus.Fields{"booking_id": b.ID, "hall": h.Name, "total": b.TotalAmount}).Info("booking requested")
		}
	}

	// ================== DEV TOKENS ==================
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me-jwt-secret"
	}
	tokens := jwt.New(secret, 7*24*time.Hour)
	fmt.Println("\nDev tokens (7 days):")
	for _, u := range append([]*domain.User{admin}, append(owners, planners...)...) {
		tok, err := tokens.GenerateToken(u.ID, string(u.Role))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("  %-24s %-13s %s\n", u.Email, u.Role, tok)
	}
	fmt.Println("\nSeed completed.")
}
