package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

// Seeded is what Seed inserted, with ids filled in.
type Seeded struct {
	Categories []domain.Category
	Products   []domain.Product
	States     []domain.State
	Cities     []domain.City
	Clients    []domain.Client
}

// Seed inserts the demo catalog, locations and two clients. The first client
// is a regular customer, the second one an administrator. hash is applied to
// the demo password of both.
func Seed(db *gorm.DB, passwordHash string) (*Seeded, error) {
	out := &Seeded{}
	err := db.Transaction(func(tx *gorm.DB) error {
		out.Categories = []domain.Category{
			{Name: "Computing"}, {Name: "Office"}, {Name: "Bed, table and bath"},
			{Name: "Electronics"}, {Name: "Gardening"}, {Name: "Decoration"}, {Name: "Perfumery"},
		}
		if err := tx.Create(&out.Categories).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		c := out.Categories
		out.Products = []domain.Product{
			{Name: "Computer", Price: 2000, Categories: []domain.Category{c[0], c[3]}},
			{Name: "Printer", Price: 800, Categories: []domain.Category{c[0], c[1], c[3]}},
			{Name: "Mouse", Price: 80, Categories: []domain.Category{c[0], c[3]}},
			{Name: "Office desk", Price: 300, Categories: []domain.Category{c[1]}},
			{Name: "Towel", Price: 50, Categories: []domain.Category{c[2]}},
			{Name: "Quilt", Price: 200, Categories: []domain.Category{c[2]}},
			{Name: "True color TV", Price: 1200, Categories: []domain.Category{c[3]}},
			{Name: "Brush cutter", Price: 800, Categories: []domain.Category{c[4]}},
			{Name: "Lampshade", Price: 100, Categories: []domain.Category{c[5]}},
			{Name: "Pendant lamp", Price: 180, Categories: []domain.Category{c[5]}},
			{Name: "Shampoo", Price: 90, Categories: []domain.Category{c[6]}},
		}
		if err := tx.Create(&out.Products).Error; err != nil {
			return fmt.Errorf("seed products: %w", err)
		}

		out.States = []domain.State{{Name: "Minas Gerais"}, {Name: "São Paulo"}}
		if err := tx.Create(&out.States).Error; err != nil {
			return fmt.Errorf("seed states: %w", err)
		}
		out.Cities = []domain.City{
			{Name: "Uberlândia", StateID: out.States[0].ID},
			{Name: "São Paulo", StateID: out.States[1].ID},
			{Name: "Campinas", StateID: out.States[1].ID},
		}
		if err := tx.Create(&out.Cities).Error; err != nil {
			return fmt.Errorf("seed cities: %w", err)
		}

		out.Clients = []domain.Client{
			{
				Name: "Maria Silva", Email: "maria@cursomc.com", TaxID: "52998224725",
				Type: domain.ClientIndividual, PasswordHash: passwordHash,
				Roles: []domain.Role{domain.RoleClient}, Phones: []string{"27363323", "93838393"},
				Addresses: []domain.Address{
					{Street: "Rua Flores", Number: "300", Complement: "Apto 303", District: "Jardim", ZipCode: "38220834", CityID: out.Cities[0].ID},
					{Street: "Avenida Matos", Number: "105", Complement: "Sala 800", District: "Centro", ZipCode: "38777012", CityID: out.Cities[1].ID},
				},
			},
			{
				Name: "Ana Costa", Email: "ana@cursomc.com", TaxID: "11144477735",
				Type: domain.ClientIndividual, PasswordHash: passwordHash,
				Roles: []domain.Role{domain.RoleClient, domain.RoleAdmin}, Phones: []string{"93883321", "34252625"},
				Addresses: []domain.Address{
					{Street: "Avenida Floriano", Number: "2106", District: "Centro", ZipCode: "281777012", CityID: out.Cities[1].ID},
				},
			},
		}
		if err := tx.Create(&out.Clients).Error; err != nil {
			return fmt.Errorf("seed clients: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
