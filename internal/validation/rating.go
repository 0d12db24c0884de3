package validation

import "github.com/recipehub/recipe-service/internal/apperrors"

// RatingInput is a validated rating submission. The same shape serves both
// the upsert on POST /recipes/{id}/ratings and rating updates.
type RatingInput struct {
	Score   int
	Comment *string
}

// RatingSubmit validates a rating body.
func RatingSubmit(body []byte) (*RatingInput, *apperrors.Error) {
	var raw struct {
		Score   *int    `json:"score"`
		Comment *string `json:"comment"`
	}
	if err := decodeStrict(body, &raw); err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	var score int
	if raw.Score == nil {
		errs.add("score", "score is required")
	} else if *raw.Score < 1 || *raw.Score > 5 {
		errs.add("score", "score must be between 1 and 5")
	} else {
		score = *raw.Score
	}
	checkOptionalLen(errs, "comment", raw.Comment, 500)

	if err := errs.err(); err != nil {
		return nil, err
	}
	return &RatingInput{Score: score, Comment: raw.Comment}, nil
}
