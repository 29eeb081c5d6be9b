package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	dbpkg "safra/db"
	"safra/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	dbpkg.AutoMigrate(conn)
	return conn
}

// newTestRouter monta um gin de teste com o DB no contexto e, se user != nil,
// o usuário "logado" (pulando o parse de JWT).
func newTestRouter(conn *gorm.DB, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(conn))
	if user != nil {
		r.Use(func(c *gin.Context) {
			c.Set(ctxUserKey, *user)
			c.Next()
		})
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// seedChecklist cria workspace + produtor + template/seção/itens + checklist
// básico pros testes de fluxo.
type checklistFixture struct {
	User      models.User
	Workspace models.Workspace
	Producer  models.Producer
	Template  models.Template
	Section   models.Section
	ItemText  models.Item
	ItemMap   models.Item
	Checklist models.Checklist
}

func seedChecklist(t *testing.T, conn *gorm.DB, status string) checklistFixture {
	t.Helper()

	ws := models.Workspace{Name: "Fazenda Auditoria"}
	require.NoError(t, conn.Create(&ws).Error)

	user := models.User{
		Name:        "Auditor",
		Email:       uuid.NewString() + "@safra.test",
		Password:    "x",
		WorkspaceID: ws.ID,
		Status:      models.USER_STATUS_AVAILABLE,
		Admin:       true,
	}
	require.NoError(t, conn.Create(&user).Error)

	producer := models.Producer{Name: "Produtor", CPF: "52998224725", Phone: "11987654321"}
	require.NoError(t, conn.Create(&producer).Error)
	require.NoError(t, conn.Create(&models.WorkspaceProducer{
		WorkspaceID: ws.ID, ProducerID: producer.ID,
	}).Error)

	tpl := models.Template{WorkspaceID: ws.ID, Name: "Conformidade ambiental"}
	require.NoError(t, conn.Create(&tpl).Error)

	section := models.Section{TemplateID: tpl.ID, Name: "Documentação"}
	require.NoError(t, conn.Create(&section).Error)

	itemText := models.Item{SectionID: section.ID, Label: "CAR atualizado?", Type: models.ITEM_TYPE_TEXT, Required: true}
	require.NoError(t, conn.Create(&itemText).Error)

	itemMap := models.Item{SectionID: section.ID, Label: "Talhão da reserva", Type: models.ITEM_TYPE_MAP}
	require.NoError(t, conn.Create(&itemMap).Error)

	cl := models.Checklist{
		WorkspaceID: ws.ID,
		TemplateID:  tpl.ID,
		ProducerID:  producer.ID,
		Status:      status,
		Type:        models.CHECKLIST_TYPE_ORIGINAL,
		PublicToken: uuid.NewString(),
	}
	require.NoError(t, conn.Create(&cl).Error)

	return checklistFixture{
		User: user, Workspace: ws, Producer: producer, Template: tpl,
		Section: section, ItemText: itemText, ItemMap: itemMap, Checklist: cl,
	}
}

func countResponses(t *testing.T, conn *gorm.DB, checklistID int64) int {
	t.Helper()
	var n int
	require.NoError(t, conn.Model(&models.Response{}).
		Where("checklist_id = ?", checklistID).Count(&n).Error)
	return n
}

func errBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Error
}
