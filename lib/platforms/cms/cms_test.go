package cms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"cmsdata/internal/components/telemetry"
	"cmsdata/lib/restyutil"
	"cmsdata/lib/table"

	"github.com/stretchr/testify/require"
)

type pagedServer struct {
	total int
	// wrap puts the records under `results` like the provider-data datastore
	wrap     bool
	requests []int
}

func (s *pagedServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		http.Error(w, "bad limit", http.StatusBadRequest)
		return
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil {
		http.Error(w, "bad offset", http.StatusBadRequest)
		return
	}
	s.requests = append(s.requests, offset)

	records := []map[string]any{}
	for i := offset; i < offset+limit && i < s.total; i++ {
		records = append(records, map[string]any{
			"id":    i,
			"state": "CA",
		})
	}

	w.Header().Set("content-type", "application/json")
	if s.wrap {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": records,
			"count":   s.total,
		})
		return
	}
	_ = json.NewEncoder(w).Encode(records)
}

func setup(t *testing.T, handler http.Handler) (*Client, *telemetry.RecorderAPI, string) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tel := &telemetry.RecorderAPI{}
	return NewClient(tel, ClientOptions{}), tel, server.URL
}

func TestFetchAllPages(t *testing.T) {
	cases := []struct {
		total      int
		pageSize   int
		maxRecords int
		wrap       bool

		expectRows     int
		expectRequests []int
	}{
		{total: 23, pageSize: 5, expectRows: 23, expectRequests: []int{0, 5, 10, 15, 20, 25}},
		{total: 23, pageSize: 5, wrap: true, expectRows: 23, expectRequests: []int{0, 5, 10, 15, 20, 25}},
		{total: 20, pageSize: 5, expectRows: 20, expectRequests: []int{0, 5, 10, 15, 20}},
		{total: 23, pageSize: 5, maxRecords: 12, expectRows: 12, expectRequests: []int{0, 5, 10}},
		{total: 10, pageSize: 5, maxRecords: 10, expectRows: 10, expectRequests: []int{0, 5}},
		{total: 8, pageSize: 5, maxRecords: 100, expectRows: 8, expectRequests: []int{0, 5, 10}},
		{total: 0, pageSize: 5, expectRows: 0, expectRequests: []int{0}},
	}

	for _, test := range cases {
		server := &pagedServer{total: test.total, wrap: test.wrap}
		client, _, url := setup(t, server)

		tbl, err := client.Fetch(context.Background(), url, PageOptions{
			PageSize:   test.pageSize,
			MaxRecords: test.maxRecords,
		})
		require.NoError(t, err)
		require.Equal(t, test.expectRows, tbl.NumRows(), "%+v", test)
		require.Equal(t, test.expectRequests, server.requests, "%+v", test)

		if test.expectRows > 0 {
			require.Equal(t, []string{"id", "state"}, tbl.Columns())
			last, _ := tbl.Cell(tbl.NumRows()-1, "id")
			require.Equal(t, json.Number(strconv.Itoa(test.expectRows-1)), last)
		}
	}
}

func TestFetchDefaultPageSize(t *testing.T) {
	server := &pagedServer{total: 3}

	var limits []string
	client, _, url := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limits = append(limits, r.URL.Query().Get("limit"))
		server.ServeHTTP(w, r)
	}))

	tbl, err := client.Fetch(context.Background(), url, PageOptions{})
	require.NoError(t, err)
	require.Equal(t, 3, tbl.NumRows())
	require.Equal(t, []string{"5000", "5000"}, limits)
}

func TestFetchErrorStatus(t *testing.T) {
	requests := 0
	client, tel, url := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("offset") == "0" {
			_, _ = w.Write([]byte(`[{"a": 1}]`))
			return
		}
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))

	_, err := client.Fetch(context.Background(), url, PageOptions{PageSize: 1})
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	require.ErrorContains(t, err, "503")
	// no retry
	require.Equal(t, 2, requests)

	broken := tel.Filter(telemetry.KindBroken)
	require.Len(t, broken, 1)
	require.Equal(t, report_fetch, broken[0].ID)
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second * 2):
		}
	}))
	t.Cleanup(server.Close)

	client := NewClient(&telemetry.RecorderAPI{}, ClientOptions{Timeout: time.Millisecond * 50})
	_, err := client.Fetch(context.Background(), server.URL, PageOptions{PageSize: 1})
	require.Error(t, err)
}

func TestFetchUnknownShape(t *testing.T) {
	client, _, url := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": "not records"}`))
	}))

	_, err := client.Fetch(context.Background(), url, PageOptions{PageSize: 1})
	require.ErrorIs(t, err, ErrUnknownShape)
}

func TestDecodeBatch(t *testing.T) {
	cases := []struct {
		body        string
		expectCount int
		expectErr   bool
	}{
		{body: `[]`, expectCount: 0},
		{body: ``, expectCount: 0},
		{body: ` [{"a": 1}, {"b": "x"}] `, expectCount: 2},
		{body: `{"results": [{"a": 1}], "count": 1}`, expectCount: 1},
		{body: `{"data": [{"a": 1}, {"a": 2}]}`, expectCount: 2},
		{body: `{"results": []}`, expectCount: 0},
		{body: `{"results": "nope"}`, expectErr: true},
		{body: `"string"`, expectErr: true},
		{body: `[1, 2]`, expectErr: true},
	}

	for _, test := range cases {
		records, err := DecodeBatch([]byte(test.body))
		if test.expectErr {
			require.Error(t, err, test.body)
			continue
		}
		require.NoError(t, err, test.body)
		require.Len(t, records, test.expectCount, test.body)
	}
}

func TestDecodeBatchKeepsLargeIntegers(t *testing.T) {
	bodies := []string{
		`[{"federal_provider_number": 9007199254740993, "score": 4.25}]`,
		`{"results": [{"federal_provider_number": 9007199254740993, "score": 4.25}]}`,
	}
	for _, body := range bodies {
		records, err := DecodeBatch([]byte(body))
		require.NoError(t, err, body)
		require.Len(t, records, 1, body)
		require.Equal(t, "9007199254740993", table.FormatCell(records[0]["federal_provider_number"]), body)
		require.Equal(t, "4.25", table.FormatCell(records[0]["score"]), body)
	}
}

func TestFetchWithDump(t *testing.T) {
	server := &pagedServer{total: 7}
	httpServer := httptest.NewServer(server)
	t.Cleanup(httpServer.Close)

	dir := filepath.Join(t.TempDir(), "dump")
	dump, err := restyutil.NewFilesystemOutput(dir)
	require.NoError(t, err)

	client := NewClient(&telemetry.RecorderAPI{}, ClientOptions{Dump: dump})
	tbl, err := client.Fetch(context.Background(), httpServer.URL, PageOptions{PageSize: 5})
	require.NoError(t, err)
	require.Equal(t, 7, tbl.NumRows())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	first, err := os.ReadFile(filepath.Join(dir, "0001.txt"))
	require.NoError(t, err)
	require.Contains(t, string(first), "offset=0")
	require.Contains(t, string(first), "200")
}
