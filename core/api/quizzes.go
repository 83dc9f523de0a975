package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"quiz-manager/core/domain"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ListQuizzes returns the quizzes visible to the session user.
func (c *Client) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: c.cfg.QuizzesPath, authed: true}, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Quiz](raw)
}

// GetQuiz returns a single quiz. A missing quiz yields domain.ErrNotFound.
func (c *Client) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	var quiz domain.Quiz
	if err := c.do(ctx, request{method: http.MethodGet, path: c.detailPath(c.cfg.QuizzesPath, id), authed: true}, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// CreateQuiz creates a quiz owned by the session user.
func (c *Client) CreateQuiz(ctx context.Context, title string) (domain.Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Quiz{}, &domain.ValidationError{Field: "title", Reason: "title is required"}
	}
	var quiz domain.Quiz
	body := map[string]string{"title": title}
	if err := c.do(ctx, request{method: http.MethodPost, path: c.cfg.QuizzesPath, body: body, authed: true}, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// UpdateQuiz changes the title of a quiz.
func (c *Client) UpdateQuiz(ctx context.Context, id, title string) (domain.Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Quiz{}, &domain.ValidationError{Field: "title", Reason: "title is required"}
	}
	var quiz domain.Quiz
	body := map[string]string{"title": title}
	if err := c.do(ctx, request{method: http.MethodPatch, path: c.detailPath(c.cfg.QuizzesPath, id), body: body, authed: true}, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// DeleteQuiz deletes a quiz; the backend removes its variants and items with
// it. A missing quiz yields domain.ErrNotFound.
func (c *Client) DeleteQuiz(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: c.detailPath(c.cfg.QuizzesPath, id), authed: true}, nil)
}

// ListVariants returns the variants the backend lists for quizID. The
// backend filter is not trusted; callers scope the result themselves.
func (c *Client) ListVariants(ctx context.Context, quizID string) ([]domain.Variant, error) {
	var raw json.RawMessage
	query := url.Values{"quiz": {quizID}}
	if err := c.do(ctx, request{method: http.MethodGet, path: c.cfg.VariantsPath, query: query, authed: true}, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Variant](raw)
}

// CreateVariant creates a named variant inside quizID.
func (c *Client) CreateVariant(ctx context.Context, quizID, name string) (domain.Variant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Variant{}, &domain.ValidationError{Field: "name", Reason: "variant name is required"}
	}
	var variant domain.Variant
	body := map[string]string{"name": name, "quiz": quizID}
	if err := c.do(ctx, request{method: http.MethodPost, path: c.cfg.VariantsPath, body: body, authed: true}, &variant); err != nil {
		return domain.Variant{}, err
	}
	return variant, nil
}

// ListItems returns the items the backend lists for variantID. Like
// ListVariants, the result is not guaranteed to be scoped.
func (c *Client) ListItems(ctx context.Context, variantID string) ([]domain.Item, error) {
	var raw json.RawMessage
	query := url.Values{"variant": {variantID}}
	if err := c.do(ctx, request{method: http.MethodGet, path: c.cfg.ItemsPath, query: query, authed: true}, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Item](raw)
}

// CreateItem creates one item. The backend may answer with the created
// record or with a list of created records; a list is reduced to its first
// element.
func (c *Client) CreateItem(ctx context.Context, quizID, variantID, name string) (domain.Item, error) {
	var raw json.RawMessage
	body := map[string]string{"name": name, "variant": variantID, "quiz": quizID}
	if err := c.do(ctx, request{method: http.MethodPost, path: c.cfg.ItemsPath, body: body, authed: true}, &raw); err != nil {
		return domain.Item{}, err
	}

	item, count, err := decodeCreated(raw)
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to decode created item: %w", err)
	}
	if count > 1 {
		c.logger.Warn("Backend created more than one item for a single name",
			zap.String("name", name),
			zap.Int("count", count),
		)
	}
	if item.Name == "" {
		item.Name = name
	}
	return item, nil
}

// DeleteItem deletes an item. An item that is already gone counts as deleted.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	err := c.do(ctx, request{method: http.MethodDelete, path: c.detailPath(c.cfg.ItemsPath, itemID), authed: true}, nil)
	if errors.Is(err, domain.ErrNotFound) {
		c.logger.Debug("Item already deleted", zap.String("item_id", itemID))
		return nil
	}
	return err
}

func (c *Client) detailPath(collection, id string) string {
	return strings.TrimRight(collection, "/") + "/" + url.PathEscape(id) + "/"
}

func decodeCreated(raw json.RawMessage) (domain.Item, int, error) {
	trimmed := bytes.TrimSpace(raw)
	var list []domain.Item
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return domain.Item{}, 0, err
		}
	} else {
		var envelope struct {
			domain.Item
			CreatedItems []domain.Item `json:"created_items"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return domain.Item{}, 0, err
		}
		if len(envelope.CreatedItems) == 0 {
			return envelope.Item, 1, nil
		}
		list = envelope.CreatedItems
	}
	if len(list) == 0 {
		return domain.Item{}, 0, errors.New("backend returned no created item")
	}
	return list[0], len(list), nil
}
