package sqlproxy

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tedblog/internal/logging"
)

// Row is one result row keyed by column name.
type Row map[string]any

// RowQuerier runs a statement and collects every row.
type RowQuerier interface {
	QueryRows(ctx context.Context, query string, args ...any) ([]Row, error)
}

// PoolQuerier runs statements on a pgx pool.
type PoolQuerier struct {
	Pool *pgxpool.Pool
}

func (q PoolQuerier) QueryRows(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := q.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	out := make([]Row, len(maps))
	for i, m := range maps {
		out[i] = Row(m)
	}
	return out, nil
}

// Server exposes a RowQuerier over HTTP for local development.
type Server struct {
	db RowQuerier
}

func NewServer(db RowQuerier) *Server {
	return &Server{db: db}
}

// Register mounts the proxy on every path of r, like the dev proxy always did.
func (s *Server) Register(r *gin.Engine) {
	r.Use(allowAnyOrigin())
	r.Any("/*path", s.Handle)
}

func allowAnyOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Next()
	}
}

// Handle dispatches on method: OPTIONS is a preflight, POST runs a
// statement, anything else reports that the proxy is up.
func (s *Server) Handle(c *gin.Context) {
	logging.Debug().Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("proxy request")

	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	case http.MethodPost:
		s.execute(c)
	default:
		writeJSON(c, http.StatusOK, gin.H{
			"status":  "running",
			"message": "Local DB Proxy is running. Use POST to execute queries.",
		})
	}
}

func (s *Server) execute(c *gin.Context) {
	var req Request
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeJSON(c, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	if req.Query == "" {
		writeJSON(c, http.StatusBadRequest, ErrorResponse{Error: "query is required"})
		return
	}

	logging.Info().Str("query", preview(req.Query)).Int("params", len(req.Params)).Msg("executing query")

	rows, err := s.db.QueryRows(c.Request.Context(), req.Query, normalizeParams(req.Params)...)
	if err != nil {
		logging.Error().Err(err).Msg("query failed")
		writeJSON(c, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	for _, row := range rows {
		for col, v := range row {
			row[col] = wireValue(v)
		}
	}
	if rows == nil {
		rows = []Row{}
	}
	writeJSON(c, http.StatusOK, rows)
}

func writeJSON(c *gin.Context, code int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.Data(http.StatusInternalServerError, "application/json", []byte(`{"error":"encode response"}`))
		return
	}
	c.Data(code, "application/json", data)
}

func preview(query string) string {
	q := bytes.Join(bytes.Fields([]byte(query)), []byte(" "))
	if len(q) > 100 {
		return string(q[:100]) + "..."
	}
	return string(q)
}

// normalizeParams turns JSON numbers into int64 where they are integral so
// pgx can bind them to integer columns.
func normalizeParams(params []any) []any {
	out := make([]any, len(params))
	for i, p := range params {
		n, ok := p.(json.Number)
		if !ok {
			out[i] = p
			continue
		}
		if v, err := n.Int64(); err == nil {
			out[i] = v
		} else if f, err := n.Float64(); err == nil {
			out[i] = f
		} else {
			out[i] = n.String()
		}
	}
	return out
}

// wireValue renders driver values the way the client parses them:
// timestamps as RFC3339 in UTC with full precision, uuids as strings.
func wireValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case [16]byte:
		return uuid.UUID(t).String()
	default:
		return v
	}
}
