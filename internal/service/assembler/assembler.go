// Package assembler joins upstream tables into the list and detail payloads
// served for each entity kind.
package assembler

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/service/origin"
	"github.com/kapu/efdata-api-go/pkg/errors"
)

// entityAssembler is the per-kind assembly routine set.
type entityAssembler struct {
	slugs  SlugResolver
	list   func(ctx context.Context, lang domain.Language) (any, error)
	detail func(ctx context.Context, lang domain.Language, id, slug string) (any, error)
}

type Assembler struct {
	fetcher     origin.Fetcher
	gameVersion string
	kinds       map[domain.Kind]entityAssembler
	tracer      trace.Tracer
	logger      *zap.Logger
}

// New wires one assembler per entity kind. gameVersion is reported in every
// list entry and detail summary.
func New(fetcher origin.Fetcher, gameVersion string, logger *zap.Logger) *Assembler {
	a := &Assembler{
		fetcher:     fetcher,
		gameVersion: gameVersion,
		tracer:      otel.Tracer("github.com/kapu/efdata-api-go/internal/service/assembler"),
		logger:      logger,
	}

	a.kinds = map[domain.Kind]entityAssembler{
		domain.KindOperators: {
			slugs:  LookupSlug{IDs: operatorSlugs, Fallback: DerivedSlug{Index: a.operatorSlugIndex}},
			list:   a.operatorList,
			detail: a.operatorDetail,
		},
		domain.KindWeapons: {
			slugs:  LookupSlug{IDs: weaponSlugs, Fallback: DerivedSlug{Index: a.weaponSlugIndex}},
			list:   a.weaponList,
			detail: a.weaponDetail,
		},
		domain.KindEnemies:    {slugs: DirectSlug{}, list: a.enemyList, detail: a.enemyDetail},
		domain.KindItems:      {slugs: DirectSlug{}, list: a.itemList, detail: a.itemDetail},
		domain.KindLore:       {slugs: DirectSlug{}, list: a.loreList, detail: a.loreDetail},
		domain.KindDocuments:  {slugs: DirectSlug{}, list: a.documentList, detail: a.documentDetail},
		domain.KindTutorials:  {slugs: DirectSlug{}, list: a.tutorialList, detail: a.tutorialDetail},
		domain.KindFacilities: {slugs: DirectSlug{}, list: a.facilityList, detail: a.facilityDetail},
	}

	return a
}

// List builds the summary collection of kind in lang.
func (a *Assembler) List(ctx context.Context, lang domain.Language, kind domain.Kind) (any, error) {
	ka, ok := a.kinds[kind]
	if !ok {
		return nil, errors.NewNotFoundError("unknown entity kind", kind.String(), "")
	}

	ctx, span := a.tracer.Start(ctx, "assembler.List", trace.WithAttributes(
		attribute.String("efdata.lang", lang.String()),
		attribute.String("efdata.kind", kind.String()),
	))
	defer span.End()

	payload, err := ka.list(ctx, lang)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return payload, nil
}

// Detail builds the payload of the entity of kind addressed by slug.
func (a *Assembler) Detail(ctx context.Context, lang domain.Language, kind domain.Kind, slug string) (any, error) {
	ka, ok := a.kinds[kind]
	if !ok {
		return nil, errors.NewNotFoundError("unknown entity kind", kind.String(), slug)
	}

	ctx, span := a.tracer.Start(ctx, "assembler.Detail", trace.WithAttributes(
		attribute.String("efdata.lang", lang.String()),
		attribute.String("efdata.kind", kind.String()),
		attribute.String("efdata.slug", slug),
	))
	defer span.End()

	id, found, err := ka.slugs.ResolveID(ctx, slug)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	if !found {
		return nil, notFound(kind, slug)
	}
	span.SetAttributes(attribute.String("efdata.id", id))

	payload, err := ka.detail(ctx, lang, id, slug)
	if err != nil {
		if !errors.IsNotFound(err) {
			recordError(span, err)
		}
		return nil, err
	}
	return payload, nil
}

func (a *Assembler) listTags(kind domain.Kind, lang domain.Language) domain.ListTags {
	return domain.ListTags{Lang: lang, Kind: kind, Version: a.gameVersion}
}

func (a *Assembler) summary(kind domain.Kind, lang domain.Language, slug, id, name string) domain.DetailSummary {
	return domain.DetailSummary{
		Slug:    slug,
		ID:      id,
		Name:    name,
		Lang:    lang,
		Type:    kind.EntityType(),
		Version: a.gameVersion,
	}
}

func notFound(kind domain.Kind, slug string) error {
	return errors.NewNotFoundError(fmt.Sprintf("%s %q not found", kind.EntityType(), slug), kind.String(), slug)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
