package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hackgods/docspot/internal/account"
	"github.com/hackgods/docspot/internal/auth"
	"github.com/hackgods/docspot/internal/availability"
	"github.com/hackgods/docspot/internal/doctor"
	"github.com/hackgods/docspot/internal/notify"
)

var specializations = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

func seedCmd() *cobra.Command {
	var (
		doctors  int
		patients int
		password string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo doctors and patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			// 0 picks a random seed.
			if err := gofakeit.Seed(0); err != nil {
				return err
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			s := &seeder{
				accounts: account.NewPgRepository(pool),
				doctors:  doctor.NewPgRepository(pool),
				hash:     hash,
			}
			if err := s.seedDoctors(cmd.Context(), doctors); err != nil {
				return fmt.Errorf("seed doctors: %w", err)
			}
			if err := s.seedPatients(cmd.Context(), patients); err != nil {
				return fmt.Errorf("seed patients: %w", err)
			}

			log.Info().Int("doctors", doctors).Int("patients", patients).Msg("seed complete")
			return nil
		},
	}

	cmd.Flags().IntVar(&doctors, "doctors", 10, "approved doctors to create")
	cmd.Flags().IntVar(&patients, "patients", 50, "patients to create")
	cmd.Flags().StringVar(&password, "password", "docspot123", "password for every seeded account")
	return cmd
}

type seeder struct {
	accounts account.Repository
	doctors  doctor.Repository
	hash     string
}

func (s *seeder) createAccount(ctx context.Context, first, last string) (*account.Account, error) {
	for attempt := 0; attempt < 3; attempt++ {
		acc, err := s.accounts.Create(ctx, account.Account{
			Name:         first + " " + last,
			Email:        strings.ToLower(gofakeit.Email()),
			PasswordHash: s.hash,
			Phone:        gofakeit.Phone(),
			IsVerified:   true,
		})
		if errors.Is(err, account.ErrEmailTaken) {
			continue
		}
		return acc, err
	}
	return nil, account.ErrEmailTaken
}

func (s *seeder) seedDoctors(ctx context.Context, count int) error {
	log.Info().Int("count", count).Msg("seeding doctors")

	for i := 0; i < count; i++ {
		app := fakeApplication()
		acc, err := s.createAccount(ctx, app.FirstName, app.LastName)
		if err != nil {
			return err
		}

		profile, err := s.doctors.Create(ctx, acc.ID, app)
		if err != nil {
			return err
		}

		_, err = s.doctors.ChangeStatus(ctx, profile.ID, doctor.StatusApproved, notify.Notification{
			Type:        notify.TypeDoctorStatusChanged,
			Message:     "Your doctor account has been approved",
			OnClickPath: "/notification",
			CreatedAt:   time.Now(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedPatients(ctx context.Context, count int) error {
	log.Info().Int("count", count).Msg("seeding patients")

	for i := 0; i < count; i++ {
		if _, err := s.createAccount(ctx, gofakeit.FirstName(), gofakeit.LastName()); err != nil {
			return err
		}
		if (i+1)%100 == 0 {
			log.Info().Int("done", i+1).Int("total", count).Msg("patients seeded")
		}
	}
	return nil
}

// fakeApplication opens between 7 and 10 am and closes eight hours later.
func fakeApplication() doctor.Application {
	opens := gofakeit.Number(7, 10) * 60
	return doctor.Application{
		FirstName:      gofakeit.FirstName(),
		LastName:       gofakeit.LastName(),
		Phone:          gofakeit.Phone(),
		Website:        gofakeit.URL(),
		Address:        gofakeit.Street() + ", " + gofakeit.City(),
		Specialization: specializations[gofakeit.Number(0, len(specializations)-1)],
		Experience:     fmt.Sprintf("%d years", gofakeit.Number(1, 30)),
		Fee:            float64(gofakeit.Number(20, 200) * 10),
		Timings: [2]string{
			availability.FormatTimeOfDay(opens),
			availability.FormatTimeOfDay(opens + 8*60),
		},
	}
}
