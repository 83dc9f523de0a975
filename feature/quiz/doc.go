// Package quiz loads quiz aggregates: a quiz, its variants and every
// variant's items.
//
// The backend's list endpoints are not reliably scoped, so every variant and
// item is checked against the requested quiz with the reference normalizer
// before it is included. A variant whose items fail to load is kept with an
// empty list and reported in Aggregate.Warnings.
//
// # Routes
//
//   - GET /quizzes      list quizzes
//   - GET /quizzes/:id  quiz aggregate
package quiz
