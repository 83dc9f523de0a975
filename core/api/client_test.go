package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"quiz-manager/core/api"
	"quiz-manager/core/domain"
	"quiz-manager/core/reconcile"
	"quiz-manager/core/tokens"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ reconcile.Mutator = (*api.Client)(nil)

func newClient(t *testing.T, handler http.HandlerFunc, cfg api.Config) (*api.Client, *tokens.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL + "/api"
	store := tokens.NewMemoryStore()
	return api.NewClient(cfg, store, nil), store
}

func TestLogin(t *testing.T) {
	t.Run("StoresTokens", func(t *testing.T) {
		client, store := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/users/login/", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"username":"ana","password":"pw"}`, string(body))
			_, _ = io.WriteString(w, `{"access":"a1","refresh":"r1"}`)
		}, api.Config{})

		pair, err := client.Login(context.Background(), domain.Credentials{Username: "ana", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "a1", pair.Access)

		stored, _ := store.Get(context.Background())
		assert.Equal(t, domain.TokenPair{Access: "a1", Refresh: "r1"}, stored)
	})

	t.Run("BadCredentials", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}, api.Config{})

		_, err := client.Login(context.Background(), domain.Credentials{Username: "ana", Password: "nope"})
		assert.ErrorIs(t, err, domain.ErrAuth)
	})

	t.Run("MissingTokens", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"access":"a1"}`)
		}, api.Config{})

		_, err := client.Login(context.Background(), domain.Credentials{Username: "ana", Password: "pw"})
		assert.ErrorIs(t, err, domain.ErrAuth)
	})

	t.Run("EmptyCredentials", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		}, api.Config{})

		_, err := client.Login(context.Background(), domain.Credentials{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestRegister(t *testing.T) {
	t.Run("FieldErrors", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"username":["A user with that username already exists."]}`)
		}, api.Config{})

		_, err := client.Register(context.Background(), domain.Registration{Username: "ana", Password: "pw"})
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"username: A user with that username already exists."}, verr.Offending)
	})

	t.Run("PasswordMismatch", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		}, api.Config{})

		_, err := client.Register(context.Background(), domain.Registration{Username: "ana", Password: "a", Password2: "b"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestRefreshAndRetry(t *testing.T) {
	t.Run("RetriesOnceAfterRefresh", func(t *testing.T) {
		var refreshes, calls int32
		client, store := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/token/refresh/":
				atomic.AddInt32(&refreshes, 1)
				_, _ = io.WriteString(w, `{"access":"fresh"}`)
			case "/api/quizzes/quizzes/7/":
				atomic.AddInt32(&calls, 1)
				if r.Header.Get("Authorization") != "Bearer fresh" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				_, _ = io.WriteString(w, `{"id":7,"title":"Capitals"}`)
			}
		}, api.Config{})
		require.NoError(t, store.Set(context.Background(), domain.TokenPair{Access: "stale", Refresh: "r1"}))

		quiz, err := client.GetQuiz(context.Background(), "7")
		require.NoError(t, err)
		assert.Equal(t, "Capitals", quiz.Title)
		assert.Equal(t, "7", quiz.ID.String())
		assert.EqualValues(t, 1, refreshes)
		assert.EqualValues(t, 2, calls)

		stored, _ := store.Get(context.Background())
		assert.Equal(t, domain.TokenPair{Access: "fresh", Refresh: "r1"}, stored)
	})

	t.Run("RefreshFailureClearsTokens", func(t *testing.T) {
		var calls int32
		client, store := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/token/refresh/" {
				atomic.AddInt32(&calls, 1)
			}
			w.WriteHeader(http.StatusUnauthorized)
		}, api.Config{})
		require.NoError(t, store.Set(context.Background(), domain.TokenPair{Access: "stale", Refresh: "expired"}))

		_, err := client.ListQuizzes(context.Background())
		assert.ErrorIs(t, err, domain.ErrAuth)
		assert.EqualValues(t, 1, calls)

		stored, _ := store.Get(context.Background())
		assert.True(t, stored.IsZero())
	})

	t.Run("NoSecondRefresh", func(t *testing.T) {
		var refreshes int32
		client, store := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/token/refresh/" {
				atomic.AddInt32(&refreshes, 1)
				_, _ = io.WriteString(w, `{"access":"fresh"}`)
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		}, api.Config{})
		require.NoError(t, store.Set(context.Background(), domain.TokenPair{Access: "stale", Refresh: "r1"}))

		_, err := client.ListQuizzes(context.Background())
		assert.ErrorIs(t, err, domain.ErrAuth)
		assert.EqualValues(t, 1, refreshes)
	})

	t.Run("EnsureSessionLogsIn", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/users/login/":
				_, _ = io.WriteString(w, `{"access":"a1","refresh":"r1"}`)
			default:
				assert.Equal(t, "Bearer a1", r.Header.Get("Authorization"))
				_, _ = io.WriteString(w, `[]`)
			}
		}, api.Config{Username: "ana", Password: "pw"})

		quizzes, err := client.ListQuizzes(context.Background())
		require.NoError(t, err)
		assert.Empty(t, quizzes)
	})
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		target error
	}{
		{"NotFound", http.StatusNotFound, domain.ErrNotFound},
		{"Forbidden", http.StatusForbidden, domain.ErrAuth},
		{"BadRequest", http.StatusBadRequest, domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}, api.Config{})
			_, err := client.GetQuiz(context.Background(), "1")
			assert.ErrorIs(t, err, tc.target)
		})
	}

	t.Run("ServerError", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"detail":"boom"}`)
		}, api.Config{})
		_, err := client.GetQuiz(context.Background(), "1")
		var status *api.StatusError
		require.True(t, errors.As(err, &status))
		assert.Equal(t, http.StatusInternalServerError, status.Code)
		assert.Equal(t, "boom", status.Body)
	})

	t.Run("Network", func(t *testing.T) {
		client := api.NewClient(api.Config{BaseURL: "http://127.0.0.1:1"}, nil, nil)
		_, err := client.GetQuiz(context.Background(), "1")
		assert.ErrorIs(t, err, domain.ErrNetwork)
	})
}

func TestLists(t *testing.T) {
	t.Run("VariantsFilterQuery", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "3", r.URL.Query().Get("quiz"))
			_, _ = io.WriteString(w, `[{"id":1,"quiz":3,"name":"Europe"},{"id":2,"quiz":{"id":4},"name":"Asia"}]`)
		}, api.Config{})

		variants, err := client.ListVariants(context.Background(), "3")
		require.NoError(t, err)
		require.Len(t, variants, 2)
		assert.True(t, variants[0].BelongsTo("3"))
		assert.False(t, variants[1].BelongsTo("3"))
	})

	t.Run("PaginatedItems", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "5", r.URL.Query().Get("variant"))
			_, _ = io.WriteString(w, `{"count":1,"results":[{"id":"9","variant":5,"name":"Paris"}]}`)
		}, api.Config{})

		items, err := client.ListItems(context.Background(), "5")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Paris", items[0].Name)
	})
}

func TestItemMutations(t *testing.T) {
	t.Run("CreateSingle", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"name":"Rome","variant":"5","quiz":"3"}`, string(body))
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":11,"variant":5,"name":"Rome"}`)
		}, api.Config{})

		item, err := client.CreateItem(context.Background(), "3", "5", "Rome")
		require.NoError(t, err)
		assert.Equal(t, "11", item.ID.String())
	})

	t.Run("CreateList", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"created_items":[{"id":12,"variant":5,"name":"Oslo"}]}`)
		}, api.Config{})

		item, err := client.CreateItem(context.Background(), "3", "5", "Oslo")
		require.NoError(t, err)
		assert.Equal(t, "12", item.ID.String())
	})

	t.Run("DeleteMissingIsSuccess", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/api/quizzes/items/11/", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}, api.Config{})

		assert.NoError(t, client.DeleteItem(context.Background(), "11"))
	})
}

func TestQuizMutations(t *testing.T) {
	t.Run("Update", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/api/quizzes/quizzes/3/", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"title":"Capitals"}`, string(body))
			_, _ = io.WriteString(w, `{"id":3,"title":"Capitals"}`)
		}, api.Config{})

		q, err := client.UpdateQuiz(context.Background(), "3", " Capitals ")
		require.NoError(t, err)
		assert.Equal(t, "Capitals", q.Title)
	})

	t.Run("UpdateNeedsTitle", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		}, api.Config{})

		_, err := client.UpdateQuiz(context.Background(), "3", "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Delete", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/api/quizzes/quizzes/3/", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}, api.Config{})

		assert.NoError(t, client.DeleteQuiz(context.Background(), "3"))
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}, api.Config{})

		assert.ErrorIs(t, client.DeleteQuiz(context.Background(), "3"), domain.ErrNotFound)
	})
}
