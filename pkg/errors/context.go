package errors

import (
	"context"
)

type tagsKey struct{}

// WithTag attaches a tracker tag to ctx. Trackers merge context tags with
// the tags passed to CaptureError.
func WithTag(ctx context.Context, key, value string) context.Context {
	existing := TagsFromContext(ctx)
	tags := make(map[string]string, len(existing)+1)
	for k, v := range existing {
		tags[k] = v
	}
	tags[key] = value
	return context.WithValue(ctx, tagsKey{}, tags)
}

// TagsFromContext returns tags attached with WithTag
func TagsFromContext(ctx context.Context) map[string]string {
	if ctx == nil {
		return nil
	}
	tags, _ := ctx.Value(tagsKey{}).(map[string]string)
	return tags
}
