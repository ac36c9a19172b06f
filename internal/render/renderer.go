package render

import "context"

type Renderer interface {
	RenderHome(ctx context.Context, page HomePage) ([]byte, error)
	RenderPost(ctx context.Context, page PostPage) ([]byte, error)
	RenderRedirect(ctx context.Context, page RedirectPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)
	RenderMaps(ctx context.Context, page MapsPage) ([]byte, error)
	RenderMap(ctx context.Context, page MapPage) ([]byte, error)
	RenderMapContent(ctx context.Context, view MapContentView) ([]byte, error)
	RenderTemplates(ctx context.Context, page TemplatesPage) ([]byte, error)
}
