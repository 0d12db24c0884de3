package validation

import (
	"fmt"
	"strings"

	"github.com/recipehub/recipe-service/internal/apperrors"
)

const maxRecipeIngredients = 50

var difficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

// RecipeIngredientInput is one validated entry of a recipe's nested
// ingredient list. Position is assigned from list order.
type RecipeIngredientInput struct {
	Name     string
	Quantity string
	Unit     *string
	Notes    *string
}

// RecipeCreateInput is a validated recipe creation payload.
type RecipeCreateInput struct {
	Title        string
	Description  *string
	Instructions string
	PrepTime     *int
	CookTime     *int
	Servings     *int
	Difficulty   *string
	CategoryID   int64
	Image        *string
	IsPublished  bool
	Ingredients  []RecipeIngredientInput
}

// RecipeUpdateInput is a validated partial recipe update. A non-nil
// Ingredients slice replaces the recipe's whole ingredient list.
type RecipeUpdateInput struct {
	Title        *string
	Description  *string
	Instructions *string
	PrepTime     *int
	CookTime     *int
	Servings     *int
	Difficulty   *string
	CategoryID   *int64
	Image        *string
	IsPublished  *bool
	Ingredients  *[]RecipeIngredientInput
}

type rawRecipeIngredient struct {
	Name     *string `json:"name"`
	Quantity *string `json:"quantity"`
	Unit     *string `json:"unit"`
	Notes    *string `json:"notes"`
}

// RecipeCreate validates a recipe creation body.
func RecipeCreate(body []byte) (*RecipeCreateInput, *apperrors.Error) {
	var raw struct {
		Title        *string               `json:"title"`
		Description  *string               `json:"description"`
		Instructions *string               `json:"instructions"`
		PrepTime     *int                  `json:"prep_time"`
		CookTime     *int                  `json:"cook_time"`
		Servings     *int                  `json:"servings"`
		Difficulty   *string               `json:"difficulty"`
		CategoryID   *int64                `json:"category_id"`
		Image        *string               `json:"image"`
		IsPublished  *bool                 `json:"is_published"`
		Ingredients  []rawRecipeIngredient `json:"ingredients"`
	}
	if err := decodeStrict(body, &raw); err != nil {
		return nil, err
	}

	errs := fieldErrors{}

	title, ok := requireString(errs, "title", raw.Title)
	if ok {
		checkTitle(errs, title)
	}

	instructions, ok := requireString(errs, "instructions", raw.Instructions)
	if ok {
		checkLen(errs, "instructions", instructions, 10, 0)
	}

	var categoryID int64
	if raw.CategoryID == nil {
		errs.add("category_id", "category_id is required")
	} else if *raw.CategoryID < 1 {
		errs.add("category_id", "category_id must be a positive identifier")
	} else {
		categoryID = *raw.CategoryID
	}

	checkRecipeOptionals(errs, raw.PrepTime, raw.CookTime, raw.Servings, raw.Difficulty, raw.Image)
	ingredients := checkIngredientList(errs, raw.Ingredients)

	if err := errs.err(); err != nil {
		return nil, err
	}

	input := &RecipeCreateInput{
		Title:        title,
		Description:  raw.Description,
		Instructions: instructions,
		PrepTime:     raw.PrepTime,
		CookTime:     raw.CookTime,
		Servings:     raw.Servings,
		Difficulty:   raw.Difficulty,
		CategoryID:   categoryID,
		Image:        raw.Image,
		Ingredients:  ingredients,
	}
	if raw.IsPublished != nil {
		input.IsPublished = *raw.IsPublished
	}
	return input, nil
}

// RecipeUpdate validates a partial recipe update body.
func RecipeUpdate(body []byte) (*RecipeUpdateInput, *apperrors.Error) {
	var raw struct {
		Title        *string                `json:"title"`
		Description  *string                `json:"description"`
		Instructions *string                `json:"instructions"`
		PrepTime     *int                   `json:"prep_time"`
		CookTime     *int                   `json:"cook_time"`
		Servings     *int                   `json:"servings"`
		Difficulty   *string                `json:"difficulty"`
		CategoryID   *int64                 `json:"category_id"`
		Image        *string                `json:"image"`
		IsPublished  *bool                  `json:"is_published"`
		Ingredients  *[]rawRecipeIngredient `json:"ingredients"`
	}
	if err := decodeStrict(body, &raw); err != nil {
		return nil, err
	}

	errs := fieldErrors{}

	if raw.Title != nil {
		checkTitle(errs, *raw.Title)
	}
	if raw.Instructions != nil {
		checkLen(errs, "instructions", *raw.Instructions, 10, 0)
	}
	if raw.CategoryID != nil && *raw.CategoryID < 1 {
		errs.add("category_id", "category_id must be a positive identifier")
	}
	checkRecipeOptionals(errs, raw.PrepTime, raw.CookTime, raw.Servings, raw.Difficulty, raw.Image)

	var ingredients *[]RecipeIngredientInput
	if raw.Ingredients != nil {
		validated := checkIngredientList(errs, *raw.Ingredients)
		ingredients = &validated
	}

	if err := errs.err(); err != nil {
		return nil, err
	}
	return &RecipeUpdateInput{
		Title:        raw.Title,
		Description:  raw.Description,
		Instructions: raw.Instructions,
		PrepTime:     raw.PrepTime,
		CookTime:     raw.CookTime,
		Servings:     raw.Servings,
		Difficulty:   raw.Difficulty,
		CategoryID:   raw.CategoryID,
		Image:        raw.Image,
		IsPublished:  raw.IsPublished,
		Ingredients:  ingredients,
	}, nil
}

func checkTitle(errs fieldErrors, title string) {
	if strings.TrimSpace(title) == "" {
		errs.add("title", "title cannot be empty or only whitespace")
		return
	}
	checkLen(errs, "title", title, 3, 200)
}

func checkRecipeOptionals(errs fieldErrors, prepTime, cookTime, servings *int, difficulty, image *string) {
	if prepTime != nil && *prepTime < 0 {
		errs.add("prep_time", "prep_time must be 0 or greater")
	}
	if cookTime != nil && *cookTime < 0 {
		errs.add("cook_time", "cook_time must be 0 or greater")
	}
	if servings != nil && *servings < 1 {
		errs.add("servings", "servings must be 1 or greater")
	}
	if difficulty != nil && !difficulties[*difficulty] {
		errs.add("difficulty", "difficulty must be one of: easy, medium, hard")
	}
	checkOptionalLen(errs, "image", image, 255)
}

func checkIngredientList(errs fieldErrors, list []rawRecipeIngredient) []RecipeIngredientInput {
	if len(list) > maxRecipeIngredients {
		errs.add("ingredients", fmt.Sprintf("ingredients must not exceed %d entries", maxRecipeIngredients))
		return nil
	}

	out := make([]RecipeIngredientInput, 0, len(list))
	seen := make(map[string]bool, len(list))
	for i, item := range list {
		prefix := fmt.Sprintf("ingredients[%d].", i)

		name, ok := requireString(errs, prefix+"name", item.Name)
		if ok {
			checkLen(errs, prefix+"name", name, 1, 100)
			key := strings.ToLower(name)
			if seen[key] {
				errs.add(prefix+"name", "duplicate ingredient name")
			}
			seen[key] = true
		}
		quantity, ok := requireString(errs, prefix+"quantity", item.Quantity)
		if ok {
			checkLen(errs, prefix+"quantity", quantity, 1, 50)
		}
		checkOptionalLen(errs, prefix+"unit", item.Unit, 20)
		checkOptionalLen(errs, prefix+"notes", item.Notes, 200)

		out = append(out, RecipeIngredientInput{
			Name:     name,
			Quantity: quantity,
			Unit:     item.Unit,
			Notes:    item.Notes,
		})
	}
	return out
}
