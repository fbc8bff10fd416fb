package cache

import (
	"strings"

	"github.com/kapu/efdata-api-go/internal/domain"
)

// Keys builds cache keys of the form
// {api-version}/{data-version}/{lang}/{kind}[/{slug}].
// The data version is part of every key, so publishing a new data version
// starts from an empty keyspace and old entries simply age out.
type Keys struct {
	APIVersion  string
	DataVersion string
}

func (k Keys) List(lang domain.Language, kind domain.Kind) string {
	return strings.Join([]string{k.APIVersion, k.DataVersion, lang.String(), kind.String()}, "/")
}

func (k Keys) Detail(lang domain.Language, kind domain.Kind, slug string) string {
	return k.List(lang, kind) + "/" + slug
}

// Prefix covers every key of this API and data version.
func (k Keys) Prefix() string {
	return k.APIVersion + "/" + k.DataVersion + "/"
}
