// Package seed loads catalog data from spreadsheet workbooks and writes the
// catalog back out in the same layout.
//
// A workbook has three sheets, each with a header row:
//
//	Ingredients        name, category
//	Recipes            title, description, category, cuisine, difficulty,
//	                   prep_time, cook_time, servings, instructions
//	RecipeIngredients  recipe, ingredient, quantity, optional
//
// Instructions are one step per line inside the cell. RecipeIngredients is
// optional; recipes without links are imported with no ingredients.
package seed

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	SheetIngredients = "Ingredients"
	SheetRecipes     = "Recipes"
	SheetLinks       = "RecipeIngredients"
)

var (
	ingredientColumns = []string{"name", "category"}
	recipeColumns     = []string{"title", "description", "category", "cuisine", "difficulty", "prep_time", "cook_time", "servings", "instructions"}
	linkColumns       = []string{"recipe", "ingredient", "quantity", "optional"}
)

type IngredientRow struct {
	Name     string
	Category string
}

type RecipeRow struct {
	Title        string
	Description  string
	Category     string
	Cuisine      string
	Difficulty   string
	PrepTime     int
	CookTime     int
	Servings     int
	Instructions []string
}

// LinkRow attaches an ingredient to a recipe, both referenced by name.
type LinkRow struct {
	Recipe     string
	Ingredient string
	Quantity   string
	Optional   bool
}

type Workbook struct {
	Ingredients []IngredientRow
	Recipes     []RecipeRow
	Links       []LinkRow
}

// sheetRows maps each data row of a sheet by lower-cased header name.
type sheetRows struct {
	name    string
	columns map[string]int
	rows    [][]string
}

func (s *sheetRows) cell(row []string, column string) string {
	i, ok := s.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (s *sheetRows) number(row []string, line int, column string) (int, error) {
	v := s.cell(row, column)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s row %d: %s must be a non-negative number, got %q", s.name, line, column, v)
	}
	return n, nil
}

// readSheet loads a sheet and checks that its key column is present. A
// missing optional sheet reads as empty.
func readSheet(f *excelize.File, name, key string, optional bool) (*sheetRows, error) {
	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		if optional {
			return &sheetRows{name: name}, nil
		}
		return nil, fmt.Errorf("workbook has no %s sheet", name)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s sheet has no header row", name)
	}

	s := &sheetRows{name: name, columns: make(map[string]int)}
	for i, h := range rows[0] {
		col := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", "_"))
		if col != "" {
			s.columns[col] = i
		}
	}
	if _, ok := s.columns[key]; !ok {
		return nil, fmt.Errorf("%s sheet is missing the %q column", name, key)
	}
	s.rows = rows[1:]
	return s, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "y", "yes", "true", "x", "optional":
		return true
	}
	return false
}

func splitSteps(v string) []string {
	var steps []string
	for _, line := range strings.Split(strings.ReplaceAll(v, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}

// ReadWorkbook parses an .xlsx document. Blank rows are skipped; row
// numbers in errors are 1-based sheet rows.
func ReadWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}

	ingredients, err := readSheet(f, SheetIngredients, "name", false)
	if err != nil {
		return nil, err
	}
	for i, row := range ingredients.rows {
		if isBlank(row) {
			continue
		}
		item := IngredientRow{
			Name:     ingredients.cell(row, "name"),
			Category: ingredients.cell(row, "category"),
		}
		if item.Name == "" {
			return nil, fmt.Errorf("%s row %d: name is required", SheetIngredients, i+2)
		}
		wb.Ingredients = append(wb.Ingredients, item)
	}

	recipes, err := readSheet(f, SheetRecipes, "title", false)
	if err != nil {
		return nil, err
	}
	for i, row := range recipes.rows {
		if isBlank(row) {
			continue
		}
		line := i + 2
		item := RecipeRow{
			Title:        recipes.cell(row, "title"),
			Description:  recipes.cell(row, "description"),
			Category:     recipes.cell(row, "category"),
			Cuisine:      recipes.cell(row, "cuisine"),
			Difficulty:   recipes.cell(row, "difficulty"),
			Instructions: splitSteps(recipes.cell(row, "instructions")),
		}
		if item.Title == "" {
			return nil, fmt.Errorf("%s row %d: title is required", SheetRecipes, line)
		}
		if item.PrepTime, err = recipes.number(row, line, "prep_time"); err != nil {
			return nil, err
		}
		if item.CookTime, err = recipes.number(row, line, "cook_time"); err != nil {
			return nil, err
		}
		if item.Servings, err = recipes.number(row, line, "servings"); err != nil {
			return nil, err
		}
		wb.Recipes = append(wb.Recipes, item)
	}

	links, err := readSheet(f, SheetLinks, "recipe", true)
	if err != nil {
		return nil, err
	}
	for i, row := range links.rows {
		if isBlank(row) {
			continue
		}
		item := LinkRow{
			Recipe:     links.cell(row, "recipe"),
			Ingredient: links.cell(row, "ingredient"),
			Quantity:   links.cell(row, "quantity"),
			Optional:   parseBool(links.cell(row, "optional")),
		}
		if item.Recipe == "" || item.Ingredient == "" {
			return nil, fmt.Errorf("%s row %d: recipe and ingredient are required", SheetLinks, i+2)
		}
		wb.Links = append(wb.Links, item)
	}

	return wb, nil
}

// WriteTo encodes the workbook as .xlsx.
func (wb *Workbook) WriteTo(w io.Writer) (int64, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetIngredients); err != nil {
		return 0, err
	}
	for _, name := range []string{SheetRecipes, SheetLinks} {
		if _, err := f.NewSheet(name); err != nil {
			return 0, err
		}
	}

	ingredients := make([][]interface{}, 0, len(wb.Ingredients))
	for _, r := range wb.Ingredients {
		ingredients = append(ingredients, []interface{}{r.Name, r.Category})
	}
	recipes := make([][]interface{}, 0, len(wb.Recipes))
	for _, r := range wb.Recipes {
		recipes = append(recipes, []interface{}{
			r.Title, r.Description, r.Category, r.Cuisine, r.Difficulty,
			r.PrepTime, r.CookTime, r.Servings, strings.Join(r.Instructions, "\n"),
		})
	}
	links := make([][]interface{}, 0, len(wb.Links))
	for _, r := range wb.Links {
		optional := ""
		if r.Optional {
			optional = "yes"
		}
		links = append(links, []interface{}{r.Recipe, r.Ingredient, r.Quantity, optional})
	}

	if err := writeSheet(f, SheetIngredients, ingredientColumns, ingredients); err != nil {
		return 0, err
	}
	if err := writeSheet(f, SheetRecipes, recipeColumns, recipes); err != nil {
		return 0, err
	}
	if err := writeSheet(f, SheetLinks, linkColumns, links); err != nil {
		return 0, err
	}
	return f.WriteTo(w)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return sw.Flush()
}
