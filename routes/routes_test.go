package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"drivebox/models"
	"drivebox/pkg/uploadit"
	"drivebox/services"
	"drivebox/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Item{}))

	provider, err := uploadit.NewFilesystemProvider(uploadit.FilesystemConfig{
		UploadDir: t.TempDir(),
		BaseURL:   "http://localhost/files",
	})
	require.NoError(t, err)

	store := services.NewItemStore(db)
	storage := services.NewStorageService(provider, store, 0, 0)

	router := gin.New()
	api := router.Group("/api")
	SetupRoutes(api, &ServiceContainer{
		DB:             db,
		JWTSecret:      testJWTSecret,
		MaxFileSize:    1 << 20,
		ItemService:    services.NewItemService(store, storage),
		ShareService:   services.NewShareService(store),
		StorageService: storage,
	})
	return router
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateJWTToken(userID, userID+"@example.com", "Test User", testJWTSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]any)
	return data
}

func TestRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/folders/"},
		{http.MethodGet, "/api/items/1"},
		{http.MethodGet, "/api/search/?q=x"},
		{http.MethodPost, "/api/uploads/presigned"},
	} {
		rec := doJSON(t, router, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestFolderLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	auth := bearerToken(t, "u1")

	// Create a root folder.
	rec := doJSON(t, router, http.MethodPost, "/api/folders/", auth, gin.H{"name": "Projects"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	folder := decodeData(t, rec)
	folderID := fmt.Sprintf("%.0f", folder["id"].(float64))

	// Nest one inside it.
	rec = doJSON(t, router, http.MethodPost, "/api/folders/", auth, gin.H{"name": "Alpha", "parent_id": folderID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Contents include the child plus breadcrumbs back to the root.
	rec = doJSON(t, router, http.MethodGet, "/api/folders/"+folderID, auth, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeData(t, rec)
	items := data["items"].([]any)
	require.Len(t, items, 1)
	crumbs := data["breadcrumbs"].([]any)
	require.Len(t, crumbs, 2)
	first := crumbs[0].(map[string]any)
	assert.Equal(t, "My Drive", first["name"])

	// Another user cannot see it.
	rec = doJSON(t, router, http.MethodGet, "/api/folders/"+folderID, bearerToken(t, "u2"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Delete reports true once, then false.
	rec = doJSON(t, router, http.MethodDelete, "/api/items/"+folderID, auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeData(t, rec)["deleted"])

	rec = doJSON(t, router, http.MethodDelete, "/api/items/"+folderID, auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeData(t, rec)["deleted"])
}

func TestShareFlowOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	auth := bearerToken(t, "u1")

	rec := doJSON(t, router, http.MethodPost, "/api/folders/", auth, gin.H{"name": "Handout"})
	require.Equal(t, http.StatusCreated, rec.Code)
	folderID := fmt.Sprintf("%.0f", decodeData(t, rec)["id"].(float64))

	rec = doJSON(t, router, http.MethodPost, "/api/share/", auth, gin.H{"item_id": folderID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	shareID := decodeData(t, rec)["share_id"].(string)
	require.NotEmpty(t, shareID)

	// Public resolution needs no token.
	rec = doJSON(t, router, http.MethodGet, "/api/shared/"+shareID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Revoked links resolve like unknown ones.
	rec = doJSON(t, router, http.MethodDelete, "/api/share/"+folderID, auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/shared/"+shareID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadFlowOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	auth := bearerToken(t, "u1")

	rec := doJSON(t, router, http.MethodPost, "/api/uploads/presigned", auth, gin.H{
		"file_name":    "report.pdf",
		"content_type": "application/pdf",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	target := decodeData(t, rec)
	fileKey := target["file_key"].(string)
	require.NotEmpty(t, target["upload_url"])
	require.NotEmpty(t, fileKey)

	// Reporting completion records the file as an item.
	rec = doJSON(t, router, http.MethodPost, "/api/uploads/complete", auth, gin.H{
		"file_key":     fileKey,
		"file_name":    "report.pdf",
		"content_type": "application/pdf",
		"size":         2048,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decodeData(t, rec)
	assert.Equal(t, "report.pdf", item["name"])
	assert.Equal(t, "pdf", item["kind"])
	fileID := fmt.Sprintf("%.0f", item["id"].(float64))

	// A refreshed URL is served for the recorded file.
	rec = doJSON(t, router, http.MethodPost, "/api/uploads/refresh-url", auth, gin.H{"file_id": fileID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotEmpty(t, decodeData(t, rec)["url"])
}

func TestCompleteUploadRejectsOversizedFile(t *testing.T) {
	router := newTestRouter(t)
	auth := bearerToken(t, "u1")

	// The router caps file size at 1 MiB.
	rec := doJSON(t, router, http.MethodPost, "/api/uploads/complete", auth, gin.H{
		"file_key":     "k1",
		"file_name":    "huge.bin",
		"content_type": "application/octet-stream",
		"size":         2 << 20,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}
