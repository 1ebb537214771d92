package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/config"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/housing"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/student"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/infrastructure/persistence/postgres"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/logger"
)

// seedData is the JSON layout of a seed file. Housings and students are
// owned by other modules in production; seeding stands in for them.
type seedData struct {
	Housings []seedHousing `json:"housings"`
	Students []seedStudent `json:"students"`
}

type seedHousing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available *bool  `json:"available"`
}

type seedStudent struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert housings and students from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readSeed(file)
			if err != nil {
				return err
			}
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync()
			if cfg.Database.Driver != config.DriverPostgres {
				return errors.New("seed needs STORE_DRIVER=postgres; use serve --seed for the memory store")
			}

			a, err := bootstrap(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.applySeed(cmd.Context(), data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d housings and %d students.\n", len(data.Housings), len(data.Students))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed.json", "seed file")
	return cmd
}

// readSeed loads and checks a seed file.
func readSeed(path string) (*seedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var data seedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i, h := range data.Housings {
		if strings.TrimSpace(h.ID) == "" {
			return nil, fmt.Errorf("seed file %s: housings[%d] has no id", path, i)
		}
	}
	for i, s := range data.Students {
		if strings.TrimSpace(s.ID) == "" {
			return nil, fmt.Errorf("seed file %s: students[%d] has no id", path, i)
		}
	}
	return &data, nil
}

func (h seedHousing) toDomain() housing.Housing {
	available := true
	if h.Available != nil {
		available = *h.Available
	}
	return housing.Housing{ID: h.ID, Name: h.Name, Available: available}
}

// applySeed writes data to whichever store the app was wired with. Existing
// housings keep their availability.
func (a *app) applySeed(ctx context.Context, data *seedData) error {
	switch {
	case a.store != nil:
		for _, h := range data.Housings {
			if _, ok := a.store.Housing(h.ID); ok {
				continue
			}
			a.store.AddHousing(h.toDomain())
		}
		for _, s := range data.Students {
			a.store.AddStudent(student.Student{ID: s.ID, DisplayName: s.DisplayName})
		}
	case a.pg != nil:
		err := a.pg.WithTx(ctx, postgres.DefaultTxOptions(), func(tx pgx.Tx) error {
			housings := postgres.NewHousingRepository(tx)
			for _, h := range data.Housings {
				dh := h.toDomain()
				if err := housings.Upsert(ctx, &dh); err != nil {
					return err
				}
			}
			students := postgres.NewStudentDirectory(tx)
			for _, s := range data.Students {
				if err := students.Upsert(ctx, student.Student{ID: s.ID, DisplayName: s.DisplayName}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("apply seed: %w", err)
		}
	default:
		return errors.New("apply seed: no store configured")
	}

	a.log.Info("seed applied",
		logger.Int("housings", len(data.Housings)),
		logger.Int("students", len(data.Students)),
	)
	return nil
}
