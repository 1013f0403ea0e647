package contact

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/tohidahmed666-design/AssetMGMT/internal/repository"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
)

type ContactRepository interface {
	PersistContact(contact *models.Contact) (*models.Contact, error)
	GetContacts() ([]models.Contact, error)
	UpdateStatus(id int, status string) error
}

type contactRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ContactRepository {
	return &contactRepositoryImpl{repository: r}
}

func (r *contactRepositoryImpl) PersistContact(contact *models.Contact) (*models.Contact, error) {
	var id int
	query := r.repository.GoquDBWrapper.Insert("contacts").
		Rows(goqu.Record{
			"name":           contact.Name,
			"email":          contact.Email,
			"subject":        contact.Subject,
			"message":        contact.Message,
			"screenshot_url": contact.ScreenshotURL,
			"status":         models.ContactStatusNew,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&id); err != nil {
		return nil, fmt.Errorf("failed to insert contact: %w", err)
	}

	contact.ID = id
	contact.Status = models.ContactStatusNew
	return contact, nil
}

func (r *contactRepositoryImpl) GetContacts() ([]models.Contact, error) {
	var contacts []models.Contact
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "email", "subject", "message",
			"screenshot_url", "status", "responded_at", "created_at").
		From("contacts").
		Order(goqu.I("created_at").Desc())

	if err := query.Executor().ScanStructs(&contacts); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return contacts, nil
}

func (r *contactRepositoryImpl) UpdateStatus(id int, status string) error {
	record := goqu.Record{"status": status}
	if status == models.ContactStatusResolved {
		record["responded_at"] = goqu.L("NOW()")
	}

	query := r.repository.GoquDBWrapper.
		Update("contacts").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update contact status: %w", err)
	}

	return nil
}
