package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubStore struct {
	todos   map[string]*Todo
	nextID  string
	lastErr error
}

func newStubStore() *stubStore {
	return &stubStore{todos: make(map[string]*Todo), nextID: "todo-1"}
}

func (s *stubStore) Create(_ context.Context, title, description string) (*Todo, error) {
	if s.lastErr != nil {
		return nil, s.lastErr
	}
	todo := &Todo{ID: s.nextID, Title: title, Description: description}
	s.todos[todo.ID] = todo
	return todo, nil
}

func (s *stubStore) List(_ context.Context) ([]Todo, error) {
	if s.lastErr != nil {
		return nil, s.lastErr
	}
	todos := make([]Todo, 0, len(s.todos))
	for _, todo := range s.todos {
		todos = append(todos, *todo)
	}
	return todos, nil
}

func (s *stubStore) Get(_ context.Context, id string) (*Todo, error) {
	if s.lastErr != nil {
		return nil, s.lastErr
	}
	return s.todos[id], nil
}

func (s *stubStore) Update(_ context.Context, id, title, description string) (*Todo, error) {
	if s.lastErr != nil {
		return nil, s.lastErr
	}
	todo, ok := s.todos[id]
	if !ok {
		return nil, nil
	}
	todo.Title = title
	todo.Description = description
	return todo, nil
}

func (s *stubStore) Delete(_ context.Context, id string) (bool, error) {
	if s.lastErr != nil {
		return false, s.lastErr
	}
	if _, ok := s.todos[id]; !ok {
		return false, nil
	}
	delete(s.todos, id)
	return true, nil
}

func newTodoRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/todo", CreateHandler(store))
	router.GET("/api/todo", ListHandler(store))
	router.GET("/api/todo/:id", GetHandler(store))
	router.PUT("/api/todo/:id", UpdateHandler(store))
	router.DELETE("/api/todo/:id", DeleteHandler(store))
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateHandler(t *testing.T) {
	store := newStubStore()
	router := newTodoRouter(store)

	rec := doJSON(router, http.MethodPost, "/api/todo", `{"title":"買い物","description":"牛乳を買う"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}

	var created Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if created.ID == "" || created.Title != "買い物" {
		t.Fatalf("unexpected created todo: %#v", created)
	}
	if _, ok := store.todos[created.ID]; !ok {
		t.Fatal("todo was not stored")
	}
}

func TestCreateHandlerInvalidBody(t *testing.T) {
	router := newTodoRouter(newStubStore())

	for _, body := range []string{"", "{}", `{"title":"only title"}`, "not-json"} {
		rec := doJSON(router, http.MethodPost, "/api/todo", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestListHandler(t *testing.T) {
	store := newStubStore()
	if _, err := store.Create(context.Background(), "a", "b"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	router := newTodoRouter(store)

	rec := doJSON(router, http.MethodGet, "/api/todo", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var todos []Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todos); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(todos) != 1 {
		t.Fatalf("len(todos) = %d, want 1", len(todos))
	}
}

func TestGetHandlerNotFound(t *testing.T) {
	router := newTodoRouter(newStubStore())

	rec := doJSON(router, http.MethodGet, "/api/todo/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateHandler(t *testing.T) {
	store := newStubStore()
	created, err := store.Create(context.Background(), "old", "old desc")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	router := newTodoRouter(store)

	rec := doJSON(router, http.MethodPut, "/api/todo/"+created.ID, `{"title":"new","description":"new desc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if store.todos[created.ID].Title != "new" {
		t.Fatalf("title = %q, want %q", store.todos[created.ID].Title, "new")
	}
}

func TestUpdateHandlerNotFound(t *testing.T) {
	router := newTodoRouter(newStubStore())

	rec := doJSON(router, http.MethodPut, "/api/todo/missing", `{"title":"a","description":"b"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteHandler(t *testing.T) {
	store := newStubStore()
	created, err := store.Create(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	router := newTodoRouter(store)

	rec := doJSON(router, http.MethodDelete, "/api/todo/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(store.todos) != 0 {
		t.Fatal("todo was not deleted")
	}

	rec = doJSON(router, http.MethodDelete, "/api/todo/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}
