package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
)

// SeedData is the reference data a fresh installation starts with.
type SeedData struct {
	Wards     []string
	Medicines []model.Medicine
}

func DefaultSeedData() SeedData {
	return SeedData{
		Wards: []string{"General A", "General B", "ICU", "Maternity", "Pediatrics", "Surgical"},
		Medicines: []model.Medicine{
			{MedName: "Paracetamol 500mg", Price: 2.5},
			{MedName: "Amoxicillin 250mg", Price: 8},
			{MedName: "Ibuprofen 400mg", Price: 3.75},
			{MedName: "Cetirizine 10mg", Price: 1.5},
			{MedName: "Omeprazole 20mg", Price: 6.2},
		},
	}
}

type SeedResult struct {
	Wards     int64
	Medicines int64
}

// Seed inserts wards (only into an empty table) and medicines (skipping names
// already present) in one transaction, so it can be run repeatedly.
func Seed(ctx context.Context, db *sqlx.DB, data SeedData) (SeedResult, error) {
	var result SeedResult
	base := NewBaseRepository(db)
	err := base.WithTx(ctx, func(tx *sqlx.Tx) error {
		var wards int64
		if err := tx.GetContext(ctx, &wards, `SELECT COUNT(*) FROM wards`); err != nil {
			return wrap("count wards", err)
		}
		if wards == 0 {
			for _, name := range data.Wards {
				if _, err := tx.ExecContext(ctx, `INSERT INTO wards (ward_name) VALUES ($1)`, name); err != nil {
					return wrap("seed ward", err)
				}
				result.Wards++
			}
		}

		for _, med := range data.Medicines {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO medicines (med_name, price) VALUES ($1, $2) ON CONFLICT (med_name) DO NOTHING`,
				med.MedName, med.Price,
			)
			if err != nil {
				return wrap("seed medicine", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return wrap("seed medicine", err)
			}
			result.Medicines += n
		}
		return nil
	})
	return result, err
}
