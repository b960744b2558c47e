package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"PlsVerify/internal/config"
	"PlsVerify/internal/metrics"
	"PlsVerify/internal/repository"
	"PlsVerify/internal/service"
	"PlsVerify/internal/utils/textio"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dir    string
	router *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dir := t.TempDir()
	cfg := &config.Config{
		Paths: config.PathsConfig{
			BaseDir:        dir,
			CSVFile:        "pls.csv",
			ReportPattern:  "pls_analysis_output_*.txt",
			MainReportFile: "latest_pls_calculation.txt",
		},
		Report: config.ReportConfig{
			Encodings:     textio.DefaultEncodings,
			CutoffPattern: config.DefaultCutoffPattern,
			TicketPattern: config.DefaultTicketPattern,
		},
		Retention: config.RetentionConfig{MaxNormalRecords: 10, MaxErrorLogs: 20},
		Prize:     config.PrizeConfig{Exact: 1000, Group3: 333, Group6: 167},
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.NewVerifier(reg)
	require.NoError(t, err)
	store := repository.NewMemoryBlockStore()
	svc, err := service.NewVerifyService(cfg, store, m, logger)
	require.NoError(t, err)
	return &fixture{dir: dir, router: NewRouter(svc, store, reg, logger)}
}

func (f *fixture) write(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), []byte(content), 0644))
}

func (f *fixture) do(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	f.router.ServeHTTP(w, req)
	return w
}

func TestVerifyAndRecords(t *testing.T) {
	f := newFixture(t)

	// 没有数据文件：失败并记录错误
	w := f.do(http.MethodPost, "/api/verify")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var failed service.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failed))
	assert.Equal(t, service.StateFailed, failed.State)
	require.NotNil(t, failed.Failure)

	f.write(t, "pls.csv", "期号,百位,十位,个位\n2025118,1,2,3\n2025119,4,5,6\n")
	f.write(t, "pls_analysis_output_20250101_120000.txt", "分析基于数据: 截至 2025118 期\n注 1: [1,2,3]\n注 2: [4,6,5]\n")

	w = f.do(http.MethodPost, "/api/verify")
	require.Equal(t, http.StatusOK, w.Code)
	var done service.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &done))
	assert.Equal(t, service.StateDone, done.State)
	assert.Equal(t, 167, done.Outcome.TotalPayout)
	assert.NotEmpty(t, done.RunID)

	w = f.do(http.MethodGet, "/api/records")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int         `json:"total"`
		List  []BlockItem `json:"list"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "outcome", string(list.List[0].Kind))
	assert.Equal(t, "2025119", list.List[0].Period)
	assert.Equal(t, "error", string(list.List[1].Kind))

	w = f.do(http.MethodGet, "/api/records?kind=error")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/records?kind=other").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/records?limit=x").Code)

	w = f.do(http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `pls_verify_runs_total{result="success"} 1`)
	assert.Contains(t, body, `pls_verify_runs_total{result="input_missing"} 1`)
	assert.Contains(t, body, `pls_verify_winning_tickets_total{tier="group6"} 1`)
}

func TestListReports(t *testing.T) {
	f := newFixture(t)
	f.write(t, "pls_analysis_output_20240101_100000.txt", "分析基于数据: 截至 2025100 期\n")
	f.write(t, "pls_analysis_output_20240102_090000.txt", "分析基于数据: 截至 2025100 期\n")

	w := f.do(http.MethodGet, "/api/reports/2025100")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Selected struct {
			Name string `json:"name"`
		} `json:"selected"`
		Candidates []json.RawMessage `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pls_analysis_output_20240102_090000.txt", resp.Selected.Name)
	assert.Len(t, resp.Candidates, 2)

	w = f.do(http.MethodGet, "/api/reports/2025101")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "2025101"))
}
