// Initium
// Copyright (c) 2026 The Initium Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Initium.
//
// Initium is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Initium is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Initium.  If not, see <http://www.gnu.org/licenses/>.

// Package api serves the launcher commands as JSON-RPC 2.0 over WebSocket
// and HTTP POST, and pushes change notifications to every connected
// websocket client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/initium-app/initium/pkg/api/methods"
	apimiddleware "github.com/initium-app/initium/pkg/api/middleware"
	"github.com/initium-app/initium/pkg/api/models"
	"github.com/initium-app/initium/pkg/api/models/requests"
	"github.com/initium-app/initium/pkg/api/validation"
	"github.com/initium-app/initium/pkg/autostart"
	"github.com/initium-app/initium/pkg/commands"
	"github.com/initium-app/initium/pkg/config"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

// MaxRequestSize fits the largest icon after base64 encoding plus the rest
// of a launcher record.
const MaxRequestSize = 8 << 20

// Deps are the services API handlers act on.
type Deps struct {
	Config    *config.Instance
	Commands  *commands.Commands
	Autostart autostart.Registrar
	// Notifications is read by the broadcaster and written to by handlers
	// that change settings.
	Notifications chan models.Notification
}

var errorMessages = map[int]string{
	models.ErrCodeParse:          "Parse error",
	models.ErrCodeInvalidRequest: "Invalid Request",
	models.ErrCodeMethodNotFound: "Method not found",
}

func newError(code int) *models.ErrorObject {
	return &models.ErrorObject{Code: code, Message: errorMessages[code]}
}

// errorObject maps a handler error to its JSON-RPC error. The message is
// always the error text; the data carries the classified failure.
func errorObject(err error) *models.ErrorObject {
	if errors.Is(err, validation.ErrMissingParams) || errors.Is(err, validation.ErrInvalidParams) {
		return &models.ErrorObject{
			Code:    models.ErrCodeInvalidParams,
			Message: err.Error(),
			Data:    commands.Failure{Kind: commands.KindValidation, Message: err.Error()},
		}
	}

	f := commands.Describe(err)
	var verr *validation.Error
	if f.Kind == commands.KindInternal && errors.As(err, &verr) {
		f.Kind = commands.KindValidation
		f.Fields = verr.Fields
	}

	code := models.ErrCodeServer
	switch f.Kind {
	case commands.KindValidation:
		code = models.ErrCodeInvalidParams
	case commands.KindNotFound:
		code = models.ErrCodeNotFound
	case commands.KindDuplicateID:
		code = models.ErrCodeDuplicateID
	case commands.KindSpawn:
		code = models.ErrCodeSpawn
	case commands.KindPersistence:
		code = models.ErrCodePersistence
	case commands.KindInternal:
	}

	return &models.ErrorObject{Code: code, Message: f.Message, Data: f}
}

func errorResponse(id models.RPCID, e *models.ErrorObject) models.ResponseErrorObject {
	if len(id.RawMessage) == 0 {
		id = models.NullRPCID
	}
	return models.ResponseErrorObject{JSONRPC: models.JSONRPCVersion, ID: id, Error: e}
}

// processRequest handles one JSON-RPC message. It returns nil when no
// response must be sent, which is the case for notifications.
func processRequest(
	ctx context.Context,
	methodMap *MethodMap,
	deps *Deps,
	isLocal bool,
	msg []byte,
) any {
	if !json.Valid(msg) {
		log.Error().Msg("request is not valid json")
		return errorResponse(models.NullRPCID, newError(models.ErrCodeParse))
	}

	var req models.RequestObject
	if err := json.Unmarshal(msg, &req); err != nil {
		log.Error().Err(err).Msg("failed to decode request")
		return errorResponse(models.NullRPCID, newError(models.ErrCodeInvalidRequest))
	}

	var id models.RPCID
	if req.ID != nil {
		id = *req.ID
	}

	if req.JSONRPC != models.JSONRPCVersion {
		log.Error().Str("jsonrpc", req.JSONRPC).Msg("unsupported payload version")
		return errorResponse(id, newError(models.ErrCodeInvalidRequest))
	}

	if req.Method == "" {
		return errorResponse(id, newError(models.ErrCodeInvalidRequest))
	}

	if req.ID.IsAbsent() {
		log.Debug().Str("method", req.Method).Msg("received notification, ignoring")
		return nil
	}

	fn, ok := methodMap.GetMethod(req.Method)
	if !ok {
		log.Warn().Str("method", req.Method).Msg("unknown method")
		return errorResponse(id, newError(models.ErrCodeMethodNotFound))
	}

	log.Debug().Str("method", req.Method).Str("id", id.String()).Msg("received request")

	result, err := fn(requests.RequestEnv{
		Ctx:           ctx,
		Commands:      deps.Commands,
		Config:        deps.Config,
		Autostart:     deps.Autostart,
		Notifications: deps.Notifications,
		Params:        req.Params,
		ID:            id,
		IsLocal:       isLocal,
	})
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Msg("request failed")
		return errorResponse(id, errorObject(err))
	}

	return models.ResponseObject{
		JSONRPC: models.JSONRPCVersion,
		ID:      id,
		Result:  result,
	}
}

func handleWSMessage(
	ctx context.Context,
	methodMap *MethodMap,
	deps *Deps,
) func(*melody.Session, []byte) {
	return func(session *melody.Session, msg []byte) {
		// ping command for heartbeat operation
		if bytes.Equal(msg, []byte("ping")) {
			if err := session.Write([]byte("pong")); err != nil {
				log.Error().Err(err).Msg("sending pong")
			}
			return
		}

		isLocal := apimiddleware.IsLoopbackAddr(session.Request.RemoteAddr)
		resp := processRequest(ctx, methodMap, deps, isLocal, msg)
		if resp == nil {
			return
		}

		data, err := json.Marshal(resp)
		if err != nil {
			log.Error().Err(err).Msg("error marshalling response")
			return
		}
		if err := session.Write(data); err != nil {
			log.Error().Err(err).Msg("error sending response")
		}
	}
}

func handlePostRequest(ctx context.Context, methodMap *MethodMap, deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			http.Error(w, http.StatusText(http.StatusUnsupportedMediaType), http.StatusUnsupportedMediaType)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestSize))
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		isLocal := apimiddleware.IsLoopbackAddr(r.RemoteAddr)
		resp := processRequest(ctx, methodMap, deps, isLocal, body)
		if resp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		data, err := json.Marshal(resp)
		if err != nil {
			log.Error().Err(err).Msg("error marshalling response")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		// JSON-RPC errors are still HTTP 200, the error is in the body
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(data); err != nil {
			log.Error().Err(err).Msg("error writing response")
		}
	}
}

// broadcastNotifications pushes every notification to all websocket
// sessions until ctx is done. Broadcasts run in their own goroutine so a
// slow client never stalls the channel.
func broadcastNotifications(
	ctx context.Context,
	session *melody.Melody,
	notifications <-chan models.Notification,
) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("stopping notification broadcaster")
			return
		case notif := <-notifications:
			data, err := json.Marshal(models.NotificationObject{
				JSONRPC: models.JSONRPCVersion,
				Method:  notif.Method,
				Params:  notif.Params,
			})
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification request")
				continue
			}

			go func() {
				if err := session.Broadcast(data); err != nil && !errors.Is(err, melody.ErrClosed) {
					log.Error().Err(err).Msg("broadcasting notification")
				}
			}()
		}
	}
}

// newRouter builds the HTTP handler and starts the background workers
// bound to ctx.
func newRouter(ctx context.Context, methodMap *MethodMap, deps *Deps) (*chi.Mux, *melody.Melody) {
	limiter := apimiddleware.NewIPRateLimiter(
		apimiddleware.RequestsPerMinute,
		apimiddleware.BurstSize,
	)
	limiter.StartCleanup(ctx)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(apimiddleware.HTTPIPFilterMiddleware(apimiddleware.NewIPFilter(deps.Config.AllowedIPs())))
	r.Use(apimiddleware.HTTPOriginMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return apimiddleware.IsLocalOrigin(origin)
		},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))

	session := melody.New()
	session.Config.MaxMessageSize = MaxRequestSize
	session.Upgrader.CheckOrigin = func(r *http.Request) bool {
		return apimiddleware.IsLocalOrigin(r.Header.Get("Origin"))
	}

	rateLimited, err := json.Marshal(errorResponse(models.NullRPCID, &models.ErrorObject{
		Code:    models.ErrCodeServer,
		Message: "Rate limit exceeded",
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal rate limit error")
	}
	session.HandleMessage(apimiddleware.WebSocketRateLimitHandler(
		limiter,
		rateLimited,
		handleWSMessage(ctx, methodMap, deps),
	))

	if deps.Notifications != nil {
		go broadcastNotifications(ctx, session, deps.Notifications)
	}

	// websocket connections are long lived, so the timeout only applies
	// to plain requests
	r.Get("/api", func(w http.ResponseWriter, r *http.Request) {
		if err := session.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(config.APIRequestTimeout))
		r.Use(apimiddleware.HTTPRateLimitMiddleware(limiter))
		r.Post("/api", handlePostRequest(ctx, methodMap, deps))
		r.With(apimiddleware.HTTPCrossSiteMiddleware).
			Get("/run/{id}", methods.HandleRunRest(deps.Commands))
	})

	return r, session
}

// Listen binds the configured API address.
func Listen(cfg *config.Instance) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", cfg.APIAddress())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.APIAddress(), err)
	}
	return ln, nil
}

// Serve runs the API on ln until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, deps *Deps, ln net.Listener) error {
	r, session := newRouter(ctx, NewMethodMap(), deps)

	srv := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("API server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		_ = session.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	log.Debug().Msg("closing HTTP server via context cancellation")
	if err := session.Close(); err != nil && !errors.Is(err, melody.ErrClosed) {
		log.Warn().Err(err).Msg("error closing websocket sessions")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown failed: %w", err)
	}
	<-errCh
	return nil
}
