package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Rakhulsr/catalog-api/app/configs"
	"github.com/Rakhulsr/catalog-api/app/db/seeders"
	"github.com/Rakhulsr/catalog-api/app/handlers"
	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/models"
	"github.com/Rakhulsr/catalog-api/app/models/migrations"
	"github.com/Rakhulsr/catalog-api/app/services"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testAdmin    = "admin"
	testPassword = "s3cret-password"
)

type memStorage struct {
	mu    sync.Mutex
	count int
}

func (s *memStorage) Save(_ context.Context, productID uint, name string, _ []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	return fmt.Sprintf("/uploads/%d/%d-%s", productID, s.count, name), nil
}

func (s *memStorage) Delete(context.Context, string) error { return nil }

type nopNotifier struct{}

func (nopNotifier) NotifyContact(context.Context, models.ContactMessage) error { return nil }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := migrations.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	h, _ := newTestServerWithDB(t)
	return h
}

func newTestServerWithDB(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	if err := seeders.DBSeed(context.Background(), db, seeders.Options{
		AdminUsername: testAdmin,
		AdminPassword: testPassword,
	}, zerolog.Nop()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	env := configs.ENV{
		AppEnv:           "test",
		APIPrefix:        "/api",
		FrontendURL:      "http://localhost:5173",
		RequestTimeout:   5 * time.Second,
		JWTSecret:        "test-access-secret-test-access-secret",
		JWTRefreshSecret: "test-refresh-secret-test-refresh-secret",
		UploadURLPrefix:  "/uploads",
		RateLimitStyle:   "window",
	}
	dispatcher := services.NewDispatcher(zerolog.Nop(), time.Second)
	t.Cleanup(func() { dispatcher.Wait(context.Background()) })

	return NewRouter(db, Options{
		Env:        env,
		Log:        zerolog.Nop(),
		Storage:    &memStorage{},
		Notifier:   nopNotifier{},
		Dispatcher: dispatcher,
	}), db
}

type response struct {
	code    int
	body    map[string]interface{}
	cookies []*http.Cookie
	header  http.Header
}

func send(t *testing.T, h http.Handler, req *http.Request, cookies []*http.Cookie) response {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	req.RemoteAddr = "192.0.2.10:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := response{code: rec.Code, cookies: rec.Result().Cookies(), header: rec.Header()}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &res.body); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", req.Method, req.URL.Path, rec.Body.String(), err)
		}
	}
	return res
}

func call(t *testing.T, h http.Handler, method, path string, payload interface{}, cookies []*http.Cookie) response {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return send(t, h, req, cookies)
}

func login(t *testing.T, h http.Handler) []*http.Cookie {
	t.Helper()
	res := call(t, h, http.MethodPost, "/api/auth/login", map[string]string{"username": testAdmin, "password": testPassword}, nil)
	if res.code != http.StatusOK {
		t.Fatalf("login status = %d body = %v", res.code, res.body)
	}
	return res.cookies
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthAndUnknownRoute(t *testing.T) {
	h := newTestServer(t)

	res := call(t, h, http.MethodGet, "/api/health", nil, nil)
	if res.code != http.StatusOK || res.body["message"] != "Server is running" {
		t.Errorf("health = %d %v", res.code, res.body)
	}
	if data, _ := res.body["data"].(map[string]interface{}); data["status"] != "ok" {
		t.Errorf("health data = %v", res.body["data"])
	}

	res = call(t, h, http.MethodGet, "/api/nope", nil, nil)
	if res.code != http.StatusNotFound || res.body["error"] != "Route not found" {
		t.Errorf("unknown route = %d %v", res.code, res.body)
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := newTestServer(t)

	for _, path := range []string{"/api/health", "/api/products", "/api/nope"} {
		res := call(t, h, http.MethodGet, path, nil, nil)
		want := map[string]string{
			"X-Content-Type-Options":       "nosniff",
			"X-Frame-Options":              "DENY",
			"X-Xss-Protection":             "1; mode=block",
			"Referrer-Policy":              "no-referrer",
			"Cross-Origin-Resource-Policy": "cross-origin",
		}
		for k, v := range want {
			if got := res.header.Get(k); got != v {
				t.Errorf("%s: %s = %q, want %q", path, k, got, v)
			}
		}
	}
}

func TestAuthFlow(t *testing.T) {
	h := newTestServer(t)

	res := call(t, h, http.MethodGet, "/api/admin/dashboard", nil, nil)
	if res.code != http.StatusUnauthorized || res.body["error"] != "Authentication required" {
		t.Fatalf("dashboard without cookie = %d %v", res.code, res.body)
	}

	res = call(t, h, http.MethodPost, "/api/auth/login", map[string]string{"username": testAdmin, "password": "nope"}, nil)
	if res.code != http.StatusUnauthorized || res.body["error"] != services.MsgInvalidCredentials {
		t.Fatalf("bad login = %d %v", res.code, res.body)
	}

	res = call(t, h, http.MethodPost, "/api/auth/login", map[string]string{"username": testAdmin, "password": testPassword}, nil)
	if res.code != http.StatusOK || res.body["message"] != "Login successful" {
		t.Fatalf("login = %d %v", res.code, res.body)
	}
	if data, _ := res.body["data"].(map[string]interface{}); data["username"] != testAdmin {
		t.Errorf("login data = %v", res.body["data"])
	}
	access := findCookie(res.cookies, helpers.AccessTokenCookie)
	refresh := findCookie(res.cookies, helpers.RefreshTokenCookie)
	if access == nil || refresh == nil {
		t.Fatalf("cookies = %v", res.cookies)
	}
	if !access.HttpOnly || access.Path != "/" {
		t.Errorf("access cookie = %+v", access)
	}
	if !refresh.HttpOnly || refresh.Path != "/api/auth" {
		t.Errorf("refresh cookie = %+v", refresh)
	}

	res = call(t, h, http.MethodGet, "/api/admin/dashboard", nil, []*http.Cookie{access})
	if res.code != http.StatusOK {
		t.Fatalf("dashboard = %d %v", res.code, res.body)
	}

	res = call(t, h, http.MethodPost, "/api/auth/refresh", nil, nil)
	if res.code != http.StatusUnauthorized || res.body["error"] != "No refresh token provided" {
		t.Errorf("refresh without cookie = %d %v", res.code, res.body)
	}
	res = call(t, h, http.MethodPost, "/api/auth/refresh", nil, []*http.Cookie{{Name: helpers.RefreshTokenCookie, Value: access.Value}})
	if res.code != http.StatusUnauthorized {
		t.Errorf("refresh with access token = %d", res.code)
	}
	res = call(t, h, http.MethodPost, "/api/auth/refresh", nil, []*http.Cookie{refresh})
	if res.code != http.StatusOK || res.body["message"] != "Token refreshed" {
		t.Errorf("refresh = %d %v", res.code, res.body)
	}
	if findCookie(res.cookies, helpers.AccessTokenCookie) == nil {
		t.Error("refresh should set a new access cookie")
	}

	res = call(t, h, http.MethodPost, "/api/auth/logout", nil, []*http.Cookie{access})
	if res.code != http.StatusOK || res.body["message"] != "Logged out successfully" {
		t.Errorf("logout = %d %v", res.code, res.body)
	}
	if c := findCookie(res.cookies, helpers.AccessTokenCookie); c == nil || c.MaxAge >= 0 {
		t.Errorf("logout should expire the access cookie, got %+v", c)
	}
}

func TestRefreshAfterAdminRemoved(t *testing.T) {
	h, db := newTestServerWithDB(t)
	cookies := login(t, h)
	refresh := findCookie(cookies, helpers.RefreshTokenCookie)
	if refresh == nil {
		t.Fatalf("cookies = %v", cookies)
	}

	if err := db.Where("username = ?", testAdmin).Delete(&models.AdminUser{}).Error; err != nil {
		t.Fatalf("delete admin: %v", err)
	}

	res := call(t, h, http.MethodPost, "/api/auth/refresh", nil, []*http.Cookie{refresh})
	if res.code != http.StatusUnauthorized || res.body["error"] != handlers.MsgUserGone {
		t.Errorf("refresh after removal = %d %v", res.code, res.body)
	}
	if c := findCookie(res.cookies, helpers.AccessTokenCookie); c != nil && c.MaxAge >= 0 {
		t.Errorf("access cookie should be cleared, got %+v", c)
	}
}

func TestAdminCatalogFlow(t *testing.T) {
	h := newTestServer(t)
	cookies := login(t, h)

	res := call(t, h, http.MethodPost, "/api/admin/categories", map[string]string{"name": "Vintage Coins"}, cookies)
	if res.code != http.StatusCreated {
		t.Fatalf("create category = %d %v", res.code, res.body)
	}
	category := res.body["data"].(map[string]interface{})
	if category["slug"] != "vintage-coins" {
		t.Errorf("category slug = %v", category["slug"])
	}
	categoryID := category["id"].(float64)

	res = call(t, h, http.MethodPost, "/api/admin/products", map[string]interface{}{}, cookies)
	if res.code != http.StatusBadRequest || res.body["error"] != helpers.MsgValidation {
		t.Fatalf("empty product = %d %v", res.code, res.body)
	}
	if details, _ := res.body["data"].([]interface{}); len(details) == 0 {
		t.Errorf("validation details missing: %v", res.body)
	}

	res = call(t, h, http.MethodPost, "/api/admin/products", map[string]interface{}{
		"title": "Peace Dollar 1922", "price": 34.5, "categoryId": 4242,
	}, cookies)
	if res.code != http.StatusBadRequest || res.body["error"] != services.MsgCategoryNotFound {
		t.Errorf("unknown category = %d %v", res.code, res.body)
	}

	res = call(t, h, http.MethodPost, "/api/admin/products", map[string]interface{}{
		"title": "Peace Dollar 1922", "price": 34.5, "categoryId": categoryID, "description": "Nice luster",
	}, cookies)
	if res.code != http.StatusCreated {
		t.Fatalf("create product = %d %v", res.code, res.body)
	}
	product := res.body["data"].(map[string]interface{})
	if product["price"] != 34.5 {
		t.Errorf("price should be a JSON number, got %#v", product["price"])
	}
	if product["visible"] != true || product["featured"] != false {
		t.Errorf("defaults = visible %v featured %v", product["visible"], product["featured"])
	}
	productID := int(product["id"].(float64))
	slug := product["slug"].(string)

	res = call(t, h, http.MethodGet, "/api/products", nil, nil)
	if res.code != http.StatusOK || res.body["total"] != float64(1) || res.body["totalPages"] != float64(1) {
		t.Errorf("list = %d %v", res.code, res.body)
	}

	res = call(t, h, http.MethodGet, "/api/products?page=abc", nil, nil)
	if res.code != http.StatusBadRequest {
		t.Errorf("bad page = %d", res.code)
	}

	res = call(t, h, http.MethodGet, "/api/products/slug/"+slug, nil, nil)
	if res.code != http.StatusOK {
		t.Errorf("by slug = %d %v", res.code, res.body)
	}

	res = call(t, h, http.MethodGet, "/api/products/abc", nil, nil)
	if res.code != http.StatusBadRequest || res.body["error"] != "Invalid product ID" {
		t.Errorf("bad id = %d %v", res.code, res.body)
	}

	res = call(t, h, http.MethodPatch, fmt.Sprintf("/api/admin/products/%d/visibility", productID), nil, cookies)
	if res.code != http.StatusOK || res.body["message"] != "Product hidden" {
		t.Fatalf("toggle = %d %v", res.code, res.body)
	}

	res = call(t, h, http.MethodGet, "/api/products", nil, nil)
	if res.body["total"] != float64(0) {
		t.Errorf("hidden product listed: %v", res.body)
	}
	res = call(t, h, http.MethodGet, "/api/products/slug/"+slug, nil, nil)
	if res.code != http.StatusNotFound {
		t.Errorf("hidden by slug = %d", res.code)
	}

	res = call(t, h, http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", int(categoryID)), nil, cookies)
	if res.code != http.StatusConflict {
		t.Errorf("delete used category = %d %v", res.code, res.body)
	}

	res = call(t, h, http.MethodGet, "/api/admin/dashboard", nil, cookies)
	stats, _ := res.body["data"].(map[string]interface{})
	if stats["totalProducts"] != float64(1) || stats["visibleProducts"] != float64(0) {
		t.Errorf("dashboard = %v", res.body)
	}

	res = call(t, h, http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", productID), nil, cookies)
	if res.code != http.StatusOK || res.body["message"] != "Product deleted" {
		t.Errorf("delete product = %d %v", res.code, res.body)
	}
}

func multipartUpload(t *testing.T, productID string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if productID != "" {
		mw.WriteField("productId", productID)
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(data)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestUploadFlow(t *testing.T) {
	h := newTestServer(t)
	cookies := login(t, h)

	res := call(t, h, http.MethodPost, "/api/admin/categories", map[string]string{"name": "Rocks"}, cookies)
	categoryID := res.body["data"].(map[string]interface{})["id"]
	res = call(t, h, http.MethodPost, "/api/admin/products", map[string]interface{}{
		"title": "Geode", "price": 10, "categoryId": categoryID,
	}, cookies)
	productID := fmt.Sprint(res.body["data"].(map[string]interface{})["id"])

	res = send(t, h, multipartUpload(t, productID, map[string][]byte{"a.png": tinyPNG(t)}), nil)
	if res.code != http.StatusUnauthorized {
		t.Errorf("upload without auth = %d", res.code)
	}

	for _, badID := range []string{"", "abc", "0"} {
		res = send(t, h, multipartUpload(t, badID, map[string][]byte{"a.png": tinyPNG(t)}), cookies)
		if res.code != http.StatusBadRequest || res.body["error"] != handlers.MsgProductIDRequired {
			t.Errorf("productId %q = %d %v", badID, res.code, res.body)
		}
	}

	res = send(t, h, multipartUpload(t, productID, map[string][]byte{"notes.txt": []byte("hello world")}), cookies)
	if res.code != http.StatusBadRequest || res.body["error"] != "Only image files are allowed" {
		t.Errorf("text upload = %d %v", res.code, res.body)
	}

	res = send(t, h, multipartUpload(t, productID, map[string][]byte{"a.png": tinyPNG(t), "b.png": tinyPNG(t)}), cookies)
	if res.code != http.StatusCreated || res.body["message"] != "2 image(s) uploaded" {
		t.Fatalf("upload = %d %v", res.code, res.body)
	}
	uploaded := res.body["data"].([]interface{})
	first := uploaded[0].(map[string]interface{})["id"]
	second := uploaded[1].(map[string]interface{})["id"]

	res = call(t, h, http.MethodPatch, "/api/upload/reorder", map[string]interface{}{"imageIds": []interface{}{second, first}}, cookies)
	if res.code != http.StatusOK || res.body["message"] != "Image order updated" {
		t.Errorf("reorder = %d %v", res.code, res.body)
	}

	res = call(t, h, http.MethodPatch, "/api/upload/reorder", map[string]interface{}{"imageIds": []interface{}{}}, cookies)
	if res.code != http.StatusBadRequest || res.body["error"] != services.MsgImageIDsRequired {
		t.Errorf("empty reorder = %d %v", res.code, res.body)
	}

	res = call(t, h, http.MethodDelete, "/api/upload", map[string]interface{}{"imageId": first}, cookies)
	if res.code != http.StatusOK || res.body["message"] != "Image deleted" {
		t.Errorf("delete image = %d %v", res.code, res.body)
	}
	res = call(t, h, http.MethodDelete, "/api/upload", map[string]interface{}{"imageId": first}, cookies)
	if res.code != http.StatusNotFound {
		t.Errorf("delete missing image = %d", res.code)
	}
}

func TestContactEndpoint(t *testing.T) {
	h := newTestServer(t)

	res := call(t, h, http.MethodPost, "/api/contact", map[string]string{
		"name": "Ada", "email": "ada@example.com", "message": "Do you ship overseas?",
	}, nil)
	if res.code != http.StatusCreated || res.body["message"] != "Message sent successfully" {
		t.Fatalf("contact = %d %v", res.code, res.body)
	}

	res = call(t, h, http.MethodPost, "/api/contact", map[string]string{"name": "Ada", "email": "nope", "message": "short"}, nil)
	if res.code != http.StatusBadRequest || res.body["error"] != helpers.MsgValidation {
		t.Errorf("invalid contact = %d %v", res.code, res.body)
	}

	cookies := login(t, h)
	res = call(t, h, http.MethodGet, "/api/admin/messages?unread=true", nil, cookies)
	if msgs, _ := res.body["data"].([]interface{}); len(msgs) != 1 {
		t.Errorf("unread messages = %v", res.body)
	}
}
