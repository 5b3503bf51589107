package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	catalogmodels "biblio/internal/catalog/models"
	"biblio/internal/lending/handler/mocks"
	"biblio/internal/lending/models"
	id "biblio/pkg/domain"
	dErrors "biblio/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

func newTestHandler(t *testing.T) (chi.Router, *mocks.MockService, *mocks.MockCatalog) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	mockCatalog := mocks.NewMockCatalog(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, mockCatalog, logger).Register(r)
	return r, mockService, mockCatalog
}

func TestHandleBorrow(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		router, mockService, _ := newTestHandler(t)
		borrowed := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
		loan := models.NewLoan("L1", "U1", "B1", borrowed)
		mockService.EXPECT().Borrow(gomock.Any(), loan.UserID, loan.BookID).Return(loan, nil)

		body, err := json.Marshal(BorrowRequest{UserID: "U1", BookID: "B1"})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/loans", bytes.NewReader(body)))

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp models.Loan
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, loan.ID, resp.ID)
		assert.Equal(t, borrowed.AddDate(0, 0, models.LoanPeriodDays), resp.DueDate)
	})

	t.Run("rejection maps to conflict", func(t *testing.T) {
		router, mockService, _ := newTestHandler(t)
		mockService.EXPECT().Borrow(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "user has unpaid fines"))

		body, err := json.Marshal(BorrowRequest{UserID: "U1", BookID: "B1"})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/loans", bytes.NewReader(body)))

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "conflict", resp["error"])
		assert.Equal(t, "user has unpaid fines", resp["error_description"])
	})

	t.Run("malformed body", func(t *testing.T) {
		router, _, _ := newTestHandler(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/loans", bytes.NewReader([]byte("{"))))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleReturn(t *testing.T) {
	router, mockService, _ := newTestHandler(t)
	borrowed := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	loan := models.NewLoan("L1", "U1", "B1", borrowed)
	require.NoError(t, loan.Close(borrowed.AddDate(0, 0, 7)))
	mockService.EXPECT().Return(gomock.Any(), loan.ID).Return(loan, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/loans/L1/return", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.Loan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.ReturnedDate)
}

func TestHandlePayFine(t *testing.T) {
	router, mockService, _ := newTestHandler(t)
	mockService.EXPECT().PayFine(gomock.Any(), gomock.Any(), 15).Return(15, nil)

	body, err := json.Marshal(PayFineRequest{Amount: 15})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/U1/fines/payments", bytes.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp PayFineResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 15, resp.Applied)
}

func TestHandleOutstanding(t *testing.T) {
	router, mockService, _ := newTestHandler(t)
	mockService.EXPECT().OutstandingFine(gomock.Any(), gomock.Any()).Return(20, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/U1/fines/outstanding", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp OutstandingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 20, resp.Outstanding)
}

func TestHandleHistory_EmptyIsJSONArray(t *testing.T) {
	router, mockService, _ := newTestHandler(t)
	mockService.EXPECT().History(gomock.Any(), gomock.Any()).Return(nil, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/U1/loans", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestHandleHistory_EnrichesWithBookTitles(t *testing.T) {
	router, mockService, mockCatalog := newTestHandler(t)
	borrowed := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	loans := []*models.Loan{
		models.NewLoan("L1", "U1", "B1", borrowed),
		models.NewLoan("L2", "U1", "B2", borrowed),
	}
	mockService.EXPECT().History(gomock.Any(), gomock.Any()).Return(loans, nil)
	mockCatalog.EXPECT().BooksByIDs(gomock.Any(), []id.BookID{"B1", "B2"}).
		Return(map[id.BookID]*catalogmodels.Book{
			"B1": {ID: "B1", Title: "Learning Go"},
		}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/U1/loans", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []LoanView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Learning Go", resp[0].BookTitle)
	assert.Empty(t, resp[1].BookTitle)
}

func TestHandleListOverdue_EnrichesWithBookTitles(t *testing.T) {
	router, mockService, mockCatalog := newTestHandler(t)
	borrowed := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	loans := []*models.Loan{models.NewLoan("L1", "U1", "B1", borrowed)}
	mockService.EXPECT().ListOverdueLoans(gomock.Any()).Return(loans, nil)
	mockCatalog.EXPECT().BooksByIDs(gomock.Any(), []id.BookID{"B1"}).
		Return(map[id.BookID]*catalogmodels.Book{
			"B1": {ID: "B1", Title: "The Go Programming Language"},
		}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/loans/overdue", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []LoanView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "The Go Programming Language", resp[0].BookTitle)
	assert.Equal(t, id.LoanID("L1"), resp[0].ID)
}

func TestHandleHistory_CatalogFailureLeavesLoansUntitled(t *testing.T) {
	router, mockService, mockCatalog := newTestHandler(t)
	borrowed := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	loans := []*models.Loan{models.NewLoan("L1", "U1", "B1", borrowed)}
	mockService.EXPECT().History(gomock.Any(), gomock.Any()).Return(loans, nil)
	mockCatalog.EXPECT().BooksByIDs(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInternal, "catalog unavailable"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/U1/loans", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []LoanView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Empty(t, resp[0].BookTitle)
}
