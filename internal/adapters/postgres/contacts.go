package postgres

import (
	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
	"gorm.io/gorm"
)

// replaceContacts rewrites the whole contact list of one owner. It must run
// inside the owner's write transaction.
func replaceContacts(tx *gorm.DB, ownerType domain.EntityType, ownerID uuid.UUID, contacts domain.ContactList) error {
	if err := tx.Where("owner_type = ? AND owner_id = ?", string(ownerType), ownerID).Delete(&contactModel{}).Error; err != nil {
		return err
	}
	rows := toContactModels(ownerType, ownerID, contacts)
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// loadContacts returns the ordered contact lists for a set of owners.
func loadContacts(db *gorm.DB, ownerType domain.EntityType, ownerIDs ...uuid.UUID) (map[uuid.UUID]domain.ContactList, error) {
	out := make(map[uuid.UUID]domain.ContactList, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	var rows []contactModel
	if err := db.Where("owner_type = ? AND owner_id IN ?", string(ownerType), ownerIDs).
		Order("owner_id asc, position asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.OwnerID] = append(out[row.OwnerID], toDomainContact(row))
	}
	return out, nil
}
