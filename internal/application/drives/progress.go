package drives

import (
	"sharebloom-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockDrive takes a row lock on the drive for the rest of tx. SQLite has no
// row locks and serializes writers anyway.
func lockDrive(tx *gorm.DB, driveID uuid.UUID) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	var d domain.Drive
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&d, "id = ?", driveID).Error
}

type collectedRow struct {
	Subcategory string
	Unit        string
	Quantity    int
}

// recomputeProgress derives totalDonations and itemsCollected from the
// attached donations that still exist. totalValue is not derived.
func recomputeProgress(tx *gorm.DB, driveID uuid.UUID) error {
	attached := func() *gorm.DB {
		return tx.Table("drive_donations AS dd").
			Joins("JOIN donations AS d ON d.id = dd.donation_id").
			Where("dd.drive_id = ?", driveID)
	}

	var total int64
	if err := attached().Count(&total).Error; err != nil {
		return err
	}
	var rows []collectedRow
	err := attached().
		Select("d.subcategory AS subcategory, d.unit AS unit, SUM(d.quantity) AS quantity").
		Group("d.subcategory, d.unit").
		Order("d.subcategory, d.unit").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	items := make(domain.CollectedItems, 0, len(rows))
	for _, r := range rows {
		items = append(items, domain.CollectedItem{Item: r.Subcategory, Quantity: r.Quantity, Unit: r.Unit})
	}
	return tx.Model(&domain.Drive{}).Where("id = ?", driveID).Updates(map[string]interface{}{
		"progress_total_donations": total,
		"progress_items_collected": items,
	}).Error
}
