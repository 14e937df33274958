// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcp exposes the research pipeline as Model Context Protocol tools
// over JSON-RPC 2.0. Server handles single messages; the transports in this
// package carry them over stdio or HTTP.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/deepdive/internal/instrument"
	"github.com/pdiddy/deepdive/pkg/types"
)

// Server dispatches MCP requests to the registered tools.
type Server struct {
	info   serverInfo
	tools  []*tool
	byName map[string]*tool
	log    *zap.Logger
	inst   instrument.Instrumenter
}

// NewServer registers the four tools backed by svc.
func NewServer(cfg types.ServerConfig, svc Services, log *zap.Logger, inst instrument.Instrumenter) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		info:   serverInfo{Name: cfg.Name, Version: cfg.Version},
		byName: make(map[string]*tool),
		log:    log,
		inst:   instrument.OrNop(inst),
	}
	if err := s.registerTools(svc); err != nil {
		return nil, err
	}
	return s, nil
}

// Tools returns the descriptors served by tools/list.
func (s *Server) Tools() []Tool {
	out := make([]Tool, len(s.tools))
	for i, t := range s.tools {
		out[i] = t.Tool
	}
	return out
}

// Handle processes one raw JSON-RPC message and returns the encoded
// response, or nil when the message is a notification.
func (s *Server) Handle(ctx context.Context, raw []byte) []byte {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return encode(s.log, errorResponse(nil, CodeParseError, "parse error: "+err.Error()))
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		if req.IsNotification() {
			return nil
		}
		return encode(s.log, errorResponse(req.ID, CodeInvalidRequest, "invalid request"))
	}

	result, rpcErr := s.dispatch(ctx, &req)
	if req.IsNotification() {
		return nil
	}
	if rpcErr != nil {
		return encode(s.log, Response{JSONRPC: "2.0", ID: req.ID, Error: rpcErr})
	}
	return encode(s.log, Response{JSONRPC: "2.0", ID: req.ID, Result: result})
}

func (s *Server) dispatch(ctx context.Context, req *Request) (any, *RPCError) {
	switch req.Method {
	case "initialize":
		return initializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    map[string]any{"tools": map[string]any{}},
			ServerInfo:      s.info,
		}, nil
	case "notifications/initialized":
		s.log.Debug("client initialized")
		return struct{}{}, nil
	case "ping":
		return struct{}{}, nil
	case "tools/list":
		return map[string]any{"tools": s.Tools()}, nil
	case "tools/call":
		return s.call(ctx, req.Params)
	default:
		return nil, &RPCError{Code: CodeMethodNotFound, Message: "method not found: " + req.Method}
	}
}

func (s *Server) call(ctx context.Context, params json.RawMessage) (any, *RPCError) {
	var p callParams
	if len(bytes.TrimSpace(params)) == 0 {
		return nil, &RPCError{Code: CodeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &RPCError{Code: CodeInvalidParams, Message: "invalid params: " + err.Error()}
	}
	t, ok := s.byName[p.Name]
	if !ok {
		return nil, &RPCError{Code: CodeInvalidParams, Message: "unknown tool: " + p.Name}
	}
	args, err := t.prepare(p.Arguments)
	if err != nil {
		return nil, &RPCError{Code: CodeInvalidParams, Message: err.Error()}
	}

	ctx = s.inst.Start(ctx, instrument.StageTool)
	defer s.inst.End(ctx, instrument.StageTool)

	result, err := s.run(ctx, t, args)
	if err != nil {
		s.inst.Error(ctx, instrument.StageTool, err)
		s.log.Warn("tool failed", zap.String("tool", t.Name), zap.Error(err))
		return ToolResult{Content: []Content{TextContent("Error: " + err.Error())}, IsError: true}, nil
	}
	s.log.Info("tool completed", zap.String("tool", t.Name), zap.Int("blocks", len(result.Content)))
	return result, nil
}

func (s *Server) run(ctx context.Context, t *tool, args map[string]any) (result ToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", t.Name, r)
		}
	}()
	return t.run(ctx, args)
}

func errorResponse(id json.RawMessage, code int, msg string) Response {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: msg}}
}

func encode(log *zap.Logger, resp Response) []byte {
	b, err := json.Marshal(resp)
	if err != nil {
		log.Error("encoding response", zap.Error(err))
		b, _ = json.Marshal(errorResponse(resp.ID, CodeInternalError, "internal error"))
	}
	return b
}
