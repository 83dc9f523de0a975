package domain

import (
	"quiz-manager/core/ref"
)

// Quiz is the top-level aggregate root as returned by the backend.
// Variants is only populated when the backend returns the nested shape.
type Quiz struct {
	ID        ref.ID    `json:"id"`
	Title     string    `json:"title"`
	Owner     ref.Ref   `json:"user,omitempty"`
	CreatedAt string    `json:"created_at,omitempty"`
	Variants  []Variant `json:"variants,omitempty"`
}

// Variant is a named category inside a quiz.
// Items is only populated when the backend returns the nested shape.
type Variant struct {
	ID     ref.ID  `json:"id"`
	Quiz   ref.Ref `json:"quiz"`
	QuizID ref.Ref `json:"quiz_id,omitempty"`
	Name   string  `json:"name"`
	Items  []Item  `json:"items,omitempty"`
}

// BelongsTo reports whether the variant references quizID.
func (v Variant) BelongsTo(quizID string) bool {
	return v.Quiz.Matches(quizID) || v.QuizID.Matches(quizID)
}

// Item is a single term that belongs to exactly one variant.
type Item struct {
	ID      ref.ID  `json:"id"`
	Variant ref.Ref `json:"variant"`
	Quiz    ref.Ref `json:"quiz,omitempty"`
	QuizID  ref.Ref `json:"quiz_id,omitempty"`
	Name    string  `json:"name"`
}

// QuizRef returns whichever quiz reference the backend supplied.
func (i Item) QuizRef() ref.Ref {
	if !i.Quiz.IsZero() {
		return i.Quiz
	}
	return i.QuizID
}

// BelongsTo reports whether the item is scoped to quizID and variantID.
// An item with no quiz reference is accepted on its variant reference alone;
// an item whose variant reference points elsewhere is always rejected.
func (i Item) BelongsTo(quizID, variantID string) bool {
	if !i.Variant.IsZero() && !i.Variant.Matches(variantID) {
		return false
	}
	quiz := i.QuizRef()
	if quiz.IsZero() {
		return !i.Variant.IsZero()
	}
	return quiz.Matches(quizID)
}

// Names returns the item names in order.
func Names(items []Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

// Credentials are posted to the login endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is posted to the register endpoint.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password"`
	Password2 string `json:"password2,omitempty"`
}

// TokenPair holds the bearer access token and the refresh token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// IsZero reports whether no tokens are held.
func (p TokenPair) IsZero() bool {
	return p.Access == "" && p.Refresh == ""
}
