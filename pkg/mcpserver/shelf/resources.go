package shelf

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cmdshelf/cmdshelf/internal/library"
)

func registerResources(srv *server.MCPServer, svc *library.Service) {
	registerLibraryResource(srv, svc)
	registerNodeTemplate(srv, svc)
}

func registerLibraryResource(srv *server.MCPServer, svc *library.Service) {
	resource := mcp.NewResource(
		"cmdshelf://library",
		"Command Library",
		mcp.WithResourceDescription("The full command library as its canonical JSON document."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		doc, err := svc.Export()
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(doc),
			},
		}, nil
	})
}

func registerNodeTemplate(srv *server.MCPServer, svc *library.Service) {
	template := mcp.NewResourceTemplate(
		"cmdshelf://nodes/{id}",
		"Library Node",
		mcp.WithTemplateDescription("A single command or group, including a group's subtree."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, _ := request.Params.Arguments["id"].(string)
		if id == "" {
			return nil, fmt.Errorf("node id is required")
		}

		node, ok := svc.Find(id)
		if !ok {
			return nil, library.ErrNotFound
		}
		return encodeResourceJSON(request.Params.URI, node)
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
