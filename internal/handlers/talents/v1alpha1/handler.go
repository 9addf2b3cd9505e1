// Package v1alpha1 serves the talent calculator over gRPC.
package v1alpha1

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/talent-api/internal/errors"
	"github.com/KirkDiggler/talent-api/internal/orchestrators/talentcalc"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	TalentService talentcalc.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil || c.TalentService == nil {
		return errors.InvalidArgument("talent service is required")
	}
	return nil
}

// Handler implements TalentServiceServer.
type Handler struct {
	talentService talentcalc.Service
}

var _ TalentServiceServer = (*Handler)(nil)

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Handler{talentService: cfg.TalentService}, nil
}

// ListClasses lists the selectable classes.
func (h *Handler) ListClasses(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.talentService.ListClasses(ctx, &talentcalc.ListClassesInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return respond(convertClasses(out))
}

// GetTalentTrees returns the class's trees without rank descriptions.
func (h *Handler) GetTalentTrees(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req TreesRequest
	if err := FromStruct(in, &req); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if req.Class == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("class is required"))
	}

	out, err := h.talentService.GetTalentTrees(ctx, &talentcalc.GetTalentTreesInput{Class: req.Class})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return respond(convertTrees(out))
}

// GetTalentDescription resolves one rank's tooltip.
func (h *Handler) GetTalentDescription(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req DescriptionRequest
	if err := FromStruct(in, &req); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("class", req.Class, vb)
	errors.ValidateRequired("tree", req.Tree, vb)
	errors.ValidateRequired("talent", req.Talent, vb)
	if err := vb.Build(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.talentService.GetTalentDescription(ctx, &talentcalc.GetTalentDescriptionInput{
		Class:  req.Class,
		Tree:   req.Tree,
		Talent: req.Talent,
		Rank:   req.Rank,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return respond(&DescriptionResponse{
		Name:        out.Name,
		Rank:        out.Rank,
		MaxRank:     out.MaxRank,
		Header:      out.Header,
		Description: out.Description,
	})
}

// Invalidate drops cached trees so the next request reloads them. An empty
// class drops every cached class.
func (h *Handler) Invalidate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req InvalidateRequest
	if err := FromStruct(in, &req); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.talentService.Invalidate(ctx, &talentcalc.InvalidateInput{Class: req.Class})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return respond(&InvalidateResponse{Dropped: out.Dropped})
}

func respond(v any) (*structpb.Struct, error) {
	s, err := ToStruct(v)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return s, nil
}
