package api

import (
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskboard-api/graph"
)

// Authenticator is implemented by types able to extract user IDs from
// Authorization header values.
type Authenticator interface {
	UserIDFromAuthHeader(string) (string, error)
}

const graphqlBodyMaxSize = 1 << 20

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, schema graphql.Schema, auth Authenticator, logger *log.Logger) {
	e.POST("/graphql", graphqlHTTP(schema, auth, logger))
	e.GET("/graphql", graphqlWS(schema, auth, logger))
	e.GET("/healthz", healthz)
}

func healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// graphqlHTTP executes query and mutation documents. Authentication is
// optional at the transport: resolvers decide whether an anonymous caller is
// acceptable.
func graphqlHTTP(schema graphql.Schema, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics := newRequestMetrics(logger)
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		authStart := time.Now()
		userID, _ := auth.UserIDFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		metrics.ObserveAuth(time.Since(authStart))

		lr := io.LimitReader(c.Request().Body, graphqlBodyMaxSize)
		dec := sonic.ConfigStd.NewDecoder(lr)
		var req graphqlRequest
		if decodeErr := dec.Decode(&req); decodeErr != nil {
			metrics.SetErrorStage("decode_request")
			err = c.String(http.StatusBadRequest, "invalid body")
			return err
		}
		metrics.SetOperation(req.OperationName)

		ctx := graph.WithUserID(c.Request().Context(), userID)
		execStart := time.Now()
		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        ctx,
		})
		metrics.ObserveExec(time.Since(execStart))
		metrics.SetErrorCount(len(result.Errors))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, result)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}
