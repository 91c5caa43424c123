package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MatsuStefanie/cursomc/internal/auth"
	"github.com/MatsuStefanie/cursomc/internal/domain"
)

type ProductUC struct {
	Products domain.ProductRepo
}

func (uc *ProductUC) Find(ctx context.Context, id uint) (*domain.Product, error) {
	p, err := uc.Products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	return p, nil
}

// Search pages through the products whose name contains name and that belong
// to at least one of categoryIDs.
func (uc *ProductUC) Search(ctx context.Context, name string, categoryIDs []uint, pr domain.PageRequest) (domain.Page[domain.Product], error) {
	f := domain.ProductFilter{Name: strings.TrimSpace(name), CategoryIDs: categoryIDs}
	return uc.Products.Search(ctx, f, withDefaults(pr, "name", domain.SortAsc))
}

const exportBatch = 200

// ExportXLSX writes the whole catalog as an Excel workbook, one product per row.
func (uc *ProductUC) ExportXLSX(ctx context.Context, actor *auth.Principal, w io.Writer) error {
	if err := auth.Authorize(actor, domain.RoleAdmin, 0); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Products"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{"ID", "Name", "Price", "Categories"}); err != nil {
		return err
	}

	row := 2
	for page := 0; ; page++ {
		res, err := uc.Products.FindPage(ctx, domain.PageRequest{Page: page, LinesPerPage: exportBatch, OrderBy: "id"})
		if err != nil {
			return fmt.Errorf("export products page %d: %w", page, err)
		}
		for _, p := range res.Content {
			names := make([]string, 0, len(p.Categories))
			for _, c := range p.Categories {
				names = append(names, c.Name)
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(sheet, cell, &[]any{p.ID, p.Name, p.Price, strings.Join(names, ", ")}); err != nil {
				return err
			}
			row++
		}
		if page+1 >= res.TotalPages {
			break
		}
	}
	_, err := f.WriteTo(w)
	return err
}
