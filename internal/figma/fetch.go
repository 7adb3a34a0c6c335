package figma

import (
	"context"
	"log/slog"

	"github.com/HartBrook/figstyle/internal/styles"
)

// FetchStyles assembles the raw style collection of a file: the published
// style list joined with the values found on each style's node.
func (c *Client) FetchStyles(ctx context.Context, fileKey string) (*styles.RawStyleCollection, error) {
	meta, err := c.GetFileStyles(ctx, fileKey)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(meta.Meta.Styles))
	for _, s := range meta.Meta.Styles {
		if s.NodeID != "" {
			ids = append(ids, s.NodeID)
		}
	}

	nodes := &NodesResponse{}
	if len(ids) > 0 {
		nodes, err = c.GetNodes(ctx, fileKey, ids)
		if err != nil {
			return nil, err
		}
	}

	raw := &styles.RawStyleCollection{
		FileKey:      fileKey,
		Name:         nodes.Name,
		LastModified: nodes.LastModified,
	}
	for _, s := range meta.Meta.Styles {
		entry := styles.RawStyle{
			Key:         s.Key,
			NodeID:      s.NodeID,
			Name:        s.Name,
			Description: s.Description,
			Kind:        s.StyleType,
		}

		var doc styles.Values
		if node := nodes.Nodes[s.NodeID]; node != nil {
			doc = node.Document
		} else {
			slog.Debug("style node missing", "style", s.Name, "node", s.NodeID)
		}

		switch s.StyleType {
		case styles.KindFill:
			entry.Values = fillValues(doc)
			raw.Styles.Fill = append(raw.Styles.Fill, entry)
		case styles.KindText:
			entry.Values = textValues(doc)
			raw.Styles.Text = append(raw.Styles.Text, entry)
		case styles.KindEffect:
			entry.Values = listValues(doc, "effects", "effects")
			raw.Styles.Effect = append(raw.Styles.Effect, entry)
		case styles.KindGrid:
			entry.Values = listValues(doc, "layoutGrids", "grids")
			raw.Styles.Grid = append(raw.Styles.Grid, entry)
		default:
			slog.Debug("skipping style of unknown type", "style", s.Name, "type", s.StyleType)
		}
	}

	return raw, nil
}

// fillValues returns the node's first paint, with hex and css forms added
// for solid colors.
func fillValues(doc styles.Values) styles.Values {
	fills, ok := doc.Slice("fills")
	if !ok || len(fills) == 0 {
		return styles.Values{}
	}
	paint, ok := fills[0].(map[string]any)
	if !ok {
		return styles.Values{}
	}

	values := make(styles.Values, len(paint)+2)
	for k, v := range paint {
		values[k] = v
	}
	if t, _ := values.String("type"); t == "SOLID" {
		if color, ok := values.Map("color"); ok {
			if rgba, ok := styles.ParseRGBA(color); ok {
				if op, ok := values.Number("opacity"); ok {
					rgba.A *= op
				}
				values["hex"] = rgba.Hex()
				values["css"] = rgba.CSS()
			}
		}
	}
	return values
}

// textValues returns the node's type style.
func textValues(doc styles.Values) styles.Values {
	style, ok := doc.Map("style")
	if !ok {
		return styles.Values{}
	}
	return style
}

// listValues wraps the node's list at field under key.
func listValues(doc styles.Values, field, key string) styles.Values {
	list, ok := doc.Slice(field)
	if !ok {
		list = []any{}
	}
	return styles.Values{key: list}
}
