package validation

import "github.com/recipehub/recipe-service/internal/apperrors"

// CategoryCreateInput is a validated category creation payload.
type CategoryCreateInput struct {
	Name        string
	Description *string
	Image       *string
}

// CategoryUpdateInput is a validated partial category update.
type CategoryUpdateInput struct {
	Name        *string
	Description *string
	Image       *string
}

// CategoryCreate validates a category creation body.
func CategoryCreate(body []byte) (*CategoryCreateInput, *apperrors.Error) {
	var raw struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Image       *string `json:"image"`
	}
	if err := decodeStrict(body, &raw); err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	name, ok := requireString(errs, "name", raw.Name)
	if ok {
		checkLen(errs, "name", name, 2, 50)
	}
	checkOptionalLen(errs, "description", raw.Description, 500)
	checkOptionalLen(errs, "image", raw.Image, 255)

	if err := errs.err(); err != nil {
		return nil, err
	}
	return &CategoryCreateInput{
		Name:        name,
		Description: raw.Description,
		Image:       raw.Image,
	}, nil
}

// CategoryUpdate validates a partial category update body.
func CategoryUpdate(body []byte) (*CategoryUpdateInput, *apperrors.Error) {
	var raw struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Image       *string `json:"image"`
	}
	if err := decodeStrict(body, &raw); err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	if raw.Name != nil {
		checkLen(errs, "name", *raw.Name, 2, 50)
	}
	checkOptionalLen(errs, "description", raw.Description, 500)
	checkOptionalLen(errs, "image", raw.Image, 255)

	if err := errs.err(); err != nil {
		return nil, err
	}
	return &CategoryUpdateInput{
		Name:        raw.Name,
		Description: raw.Description,
		Image:       raw.Image,
	}, nil
}
