package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"market-pos/internal/batch"
	"market-pos/internal/realtime"
	"market-pos/internal/services"
	"market-pos/internal/status"
	"market-pos/internal/store/storetest"
	"market-pos/models"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessions struct {
	mu      sync.Mutex
	batches map[string]*batch.Batch
}

func (s *sessions) Load(_ context.Context, id string) (*batch.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.batches[id]; ok {
		return &batch.Batch{Items: append([]batch.Item{}, b.Items...)}, nil
	}
	return batch.New(), nil
}

func (s *sessions) Save(ctx context.Context, id string, b *batch.Batch) error {
	if b.IsEmpty() {
		return s.Delete(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[id] = &batch.Batch{Items: append([]batch.Item{}, b.Items...)}
	return nil
}

func (s *sessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.batches, id)
	return nil
}

type fixture struct {
	mem      *storetest.Memory
	handlers *Handlers
}

func newFixture() *fixture {
	mem := storetest.NewMemory()
	engine := batch.NewEngine(mem.Transactions(), mem.Requests())
	hub := realtime.NewHub()

	vendorSvc := services.NewVendorService(mem.Vendors(), "https://pos.example.com")
	txSvc := services.NewTransactionService(mem.Transactions(), mem.Vendors())
	reqSvc := services.NewRequestService(mem.Requests(), mem.Vendors(), engine)
	batchSvc := services.NewBatchService(&sessions{batches: map[string]*batch.Batch{}}, mem.Requests(), mem.Vendors(), engine)
	dashSvc := services.NewDashboardService(hub, mem.Vendors(), mem.Transactions(), mem.Requests())
	exportSvc := services.NewExportService(mem.Transactions(), mem.Vendors())

	return &fixture{
		mem: mem,
		handlers: &Handlers{
			Vendors:      NewVendorHandler(vendorSvc),
			Transactions: NewTransactionHandler(txSvc, exportSvc),
			Requests:     NewRequestHandler(reqSvc),
			Batch:        NewBatchHandler(batchSvc),
			Dashboard:    NewDashboardHandler(dashSvc),
			Public:       NewPublicHandler(dashSvc, reqSvc),
		},
	}
}

func newEvent(method, target, body string, pathValues map[string]string) (*core.RequestEvent, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}

	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Request = req
	e.Response = rec
	return e, rec
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr), "expected ApiError, got %v", err)
	return apiErr.Status
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestVendorHandler_CreateIncludesShareURL(t *testing.T) {
	f := newFixture()
	e, rec := newEvent(http.MethodPost, "/api/v1/vendors", `{"name":"Fresh Greens","email":"greens@example.com"}`, nil)

	require.NoError(t, f.handlers.Vendors.Create(e))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "Fresh Greens", body["name"])
	assert.Equal(t, "https://pos.example.com/v/"+body["share_token"].(string), body["share_url"])
}

func TestVendorHandler_CreateValidation(t *testing.T) {
	f := newFixture()

	e, _ := newEvent(http.MethodPost, "/api/v1/vendors", `{"name":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, f.handlers.Vendors.Create(e)))

	e, _ = newEvent(http.MethodPost, "/api/v1/vendors", `{"name":"Stall","email":"not-an-email"}`, nil)
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, f.handlers.Vendors.Create(e)))
}

func TestVendorHandler_GetNotFound(t *testing.T) {
	f := newFixture()
	e, _ := newEvent(http.MethodGet, "/api/v1/vendors/missing", "", map[string]string{"id": "missing"})

	assert.Equal(t, http.StatusNotFound, apiStatus(t, f.handlers.Vendors.Get(e)))
}

func TestTransactionHandler_CreateRejectsZeroAmount(t *testing.T) {
	f := newFixture()
	v := f.mem.SeedVendor(models.Vendor{Name: "Stall"})

	body := `{"vendor_id":"` + v.ID + `","amount":"0","payment_method":"cash"}`
	e, _ := newEvent(http.MethodPost, "/api/v1/transactions", body, nil)

	assert.Equal(t, http.StatusBadRequest, apiStatus(t, f.handlers.Transactions.Create(e)))
	assert.Empty(t, f.mem.Writes)
}

func TestTransactionHandler_CreateRejectsSubCentAmount(t *testing.T) {
	f := newFixture()
	v := f.mem.SeedVendor(models.Vendor{Name: "Stall"})

	body := `{"vendor_id":"` + v.ID + `","amount":"0.004","payment_method":"cash"}`
	e, _ := newEvent(http.MethodPost, "/api/v1/transactions", body, nil)

	assert.Equal(t, http.StatusBadRequest, apiStatus(t, f.handlers.Transactions.Create(e)))
	assert.Empty(t, f.mem.Writes)
}

func TestTransactionHandler_ListBadDate(t *testing.T) {
	f := newFixture()
	e, _ := newEvent(http.MethodGet, "/api/v1/transactions?from=yesterday", "", nil)

	assert.Equal(t, http.StatusBadRequest, apiStatus(t, f.handlers.Transactions.List(e)))
}

func TestTransactionHandler_Export(t *testing.T) {
	f := newFixture()
	v := f.mem.SeedVendor(models.Vendor{Name: "Stall"})
	f.mem.SeedTransaction(models.Transaction{VendorID: v.ID, Amount: decimal.RequireFromString("3"), PaymentMethod: models.PaymentMethodCard})
	e, rec := newEvent(http.MethodGet, "/api/v1/transactions/export", "", nil)

	require.NoError(t, f.handlers.Transactions.Export(e))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, rec.Body.Len())
}

func TestBatchHandler_RequiresSession(t *testing.T) {
	f := newFixture()
	e, _ := newEvent(http.MethodGet, "/api/v1/batch", "", nil)

	assert.Equal(t, http.StatusBadRequest, apiStatus(t, f.handlers.Batch.Get(e)))
}

func TestBatchHandler_NewSession(t *testing.T) {
	f := newFixture()
	e, rec := newEvent(http.MethodPost, "/api/v1/batch/session", "", nil)

	require.NoError(t, f.handlers.Batch.NewSession(e))

	var body map[string]string
	decode(t, rec, &body)
	assert.True(t, strings.HasPrefix(body["session_id"], "session_"))
}

func TestBatchHandler_ToggleAndCommit(t *testing.T) {
	f := newFixture()
	v := f.mem.SeedVendor(models.Vendor{Name: "Fresh Greens"})
	req := f.mem.SeedRequest(models.PaymentRequest{VendorID: v.ID, Amount: decimal.RequireFromString("12.50"), PayerName: "Alice"})

	e, rec := newEvent(http.MethodPost, "/api/v1/batch/toggle", `{"request_id":"`+req.ID+`"}`, nil)
	e.Request.Header.Set(SessionHeader, "s1")
	require.NoError(t, f.handlers.Batch.Toggle(e))

	var toggled struct {
		InBatch bool `json:"in_batch"`
		Batch   struct {
			Total       string `json:"total"`
			Description string `json:"description"`
		} `json:"batch"`
	}
	decode(t, rec, &toggled)
	assert.True(t, toggled.InBatch)
	assert.Equal(t, "12.5", toggled.Batch.Total)

	e, rec = newEvent(http.MethodPost, "/api/v1/batch/manual", `{"vendor_id":"`+v.ID+`","amount":"7.25","payer_name":"Bob"}`, nil)
	e.Request.Header.Set(SessionHeader, "s1")
	require.NoError(t, f.handlers.Batch.AddManual(e))
	assert.Equal(t, http.StatusCreated, rec.Code)

	e, rec = newEvent(http.MethodPost, "/api/v1/batch/commit", `{"payment_method":"cash"}`, nil)
	e.Request.Header.Set(SessionHeader, "s1")
	require.NoError(t, f.handlers.Batch.Commit(e))

	var result batch.CommitResult
	decode(t, rec, &result)
	assert.Equal(t, 2, result.Committed)
	assert.Equal(t, "19.75", result.Collected.StringFixed(2))

	got, err := f.mem.Requests().Get(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestCompleted, got.Status)

	// The session batch is gone, so committing again is rejected.
	e, _ = newEvent(http.MethodPost, "/api/v1/batch/commit", `{"payment_method":"cash"}`, nil)
	e.Request.Header.Set(SessionHeader, "s1")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, f.handlers.Batch.Commit(e)))
}

func TestBatchHandler_RemoveUnknownItem(t *testing.T) {
	f := newFixture()
	e, _ := newEvent(http.MethodDelete, "/api/v1/batch/items/missing", "", map[string]string{"itemId": "missing"})
	e.Request.Header.Set(SessionHeader, "s1")

	assert.Equal(t, http.StatusNotFound, apiStatus(t, f.handlers.Batch.RemoveItem(e)))
}

func TestBatchHandler_CommitRejectsUnknownMethod(t *testing.T) {
	f := newFixture()
	e, _ := newEvent(http.MethodPost, "/api/v1/batch/commit", `{"payment_method":"iou"}`, nil)
	e.Request.Header.Set(SessionHeader, "s1")

	assert.Equal(t, http.StatusBadRequest, apiStatus(t, f.handlers.Batch.Commit(e)))
}

func TestPublicHandler_SubmitAndCancel(t *testing.T) {
	f := newFixture()
	f.mem.SeedVendor(models.Vendor{Name: "Stall", ShareToken: "tok"})

	e, rec := newEvent(http.MethodPost, "/api/v1/public/tok/requests", `{"amount":"4.5","payer_name":"Alice"}`, map[string]string{"token": "tok"})
	require.NoError(t, f.handlers.Public.SubmitRequest(e))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.PaymentRequest
	decode(t, rec, &created)
	assert.Equal(t, models.RequestPending, created.Status)

	e, rec = newEvent(http.MethodPost, "/api/v1/public/tok/requests/"+created.ID+"/cancel", "", map[string]string{"token": "tok", "id": created.ID})
	require.NoError(t, f.handlers.Public.CancelRequest(e))

	var cancelled models.PaymentRequest
	decode(t, rec, &cancelled)
	assert.Equal(t, models.RequestCancelled, cancelled.Status)
}

func TestPublicHandler_UnknownToken(t *testing.T) {
	f := newFixture()
	e, _ := newEvent(http.MethodGet, "/api/v1/public/nope", "", map[string]string{"token": "nope"})

	assert.Equal(t, http.StatusNotFound, apiStatus(t, f.handlers.Public.Dashboard(e)))
}

func TestEvaluate(t *testing.T) {
	e, rec := newEvent(http.MethodPost, "/api/v1/calculator/evaluate", `{"keys":["10","+","5","×","2"]}`, nil)

	require.NoError(t, Evaluate(e))

	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "30.00", body["display"])
	assert.Equal(t, "15 × 2", body["expression"])

	e, _ = newEvent(http.MethodPost, "/api/v1/calculator/evaluate", `{"keys":["1","abc"]}`, nil)
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, Evaluate(e)))
}

func TestApiError_HidesRemoteFailures(t *testing.T) {
	e, _ := newEvent(http.MethodGet, "/", "", nil)

	err := apiError(e, "load things", errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.NotContains(t, apiErr.Message, "10.0.0.1")

	assert.Equal(t, http.StatusBadRequest, apiStatus(t, apiError(e, "x", status.ErrEmptyBatch)))
}
