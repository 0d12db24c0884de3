package validation

import "github.com/recipehub/recipe-service/internal/apperrors"

// IngredientCreateInput is a validated catalog ingredient creation payload.
type IngredientCreateInput struct {
	Name string
	Unit *string
}

// IngredientUpdateInput is a validated partial catalog ingredient update.
type IngredientUpdateInput struct {
	Name *string
	Unit *string
}

// IngredientCreate validates an ingredient creation body.
func IngredientCreate(body []byte) (*IngredientCreateInput, *apperrors.Error) {
	var raw struct {
		Name *string `json:"name"`
		Unit *string `json:"unit"`
	}
	if err := decodeStrict(body, &raw); err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	name, ok := requireString(errs, "name", raw.Name)
	if ok {
		checkLen(errs, "name", name, 1, 100)
	}
	checkOptionalLen(errs, "unit", raw.Unit, 20)

	if err := errs.err(); err != nil {
		return nil, err
	}
	return &IngredientCreateInput{Name: name, Unit: raw.Unit}, nil
}

// IngredientUpdate validates a partial ingredient update body.
func IngredientUpdate(body []byte) (*IngredientUpdateInput, *apperrors.Error) {
	var raw struct {
		Name *string `json:"name"`
		Unit *string `json:"unit"`
	}
	if err := decodeStrict(body, &raw); err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	if raw.Name != nil {
		checkLen(errs, "name", *raw.Name, 1, 100)
	}
	checkOptionalLen(errs, "unit", raw.Unit, 20)

	if err := errs.err(); err != nil {
		return nil, err
	}
	return &IngredientUpdateInput{Name: raw.Name, Unit: raw.Unit}, nil
}
