package notion

import (
	"fmt"
	"strings"
)

type richText struct {
	PlainText string `json:"plain_text"`
	Href      string `json:"href"`
}

func plainText(rt []richText) string {
	var sb strings.Builder
	for _, t := range rt {
		sb.WriteString(t.PlainText)
	}
	return sb.String()
}

// Block is one content block of a page. Only the fields needed for
// markdown rendering are decoded; the per-type payloads share a common
// shape.
type Block struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children"`

	Paragraph        *blockText `json:"paragraph"`
	Heading1         *blockText `json:"heading_1"`
	Heading2         *blockText `json:"heading_2"`
	Heading3         *blockText `json:"heading_3"`
	BulletedListItem *blockText `json:"bulleted_list_item"`
	NumberedListItem *blockText `json:"numbered_list_item"`
	ToDo             *todoBlock `json:"to_do"`
	Code             *codeBlock `json:"code"`
	Quote            *blockText `json:"quote"`
	Callout          *blockText `json:"callout"`
	Toggle           *blockText `json:"toggle"`
}

type blockText struct {
	RichText []richText `json:"rich_text"`
}

type todoBlock struct {
	RichText []richText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

type codeBlock struct {
	RichText []richText `json:"rich_text"`
	Language string     `json:"language"`
}

// RenderMarkdown converts blocks to markdown text. Unsupported block
// types are skipped; numbered list items restart numbering whenever a
// non-numbered block intervenes.
func RenderMarkdown(blocks []Block) string {
	var sb strings.Builder
	number := 0

	for _, b := range blocks {
		if b.Type != "numbered_list_item" {
			number = 0
		}

		switch b.Type {
		case "paragraph":
			if text := blockString(b.Paragraph); text != "" {
				sb.WriteString(text + "\n\n")
			}
		case "heading_1":
			sb.WriteString("# " + blockString(b.Heading1) + "\n\n")
		case "heading_2":
			sb.WriteString("## " + blockString(b.Heading2) + "\n\n")
		case "heading_3":
			sb.WriteString("### " + blockString(b.Heading3) + "\n\n")
		case "bulleted_list_item":
			sb.WriteString("- " + blockString(b.BulletedListItem) + "\n")
		case "numbered_list_item":
			number++
			fmt.Fprintf(&sb, "%d. %s\n", number, blockString(b.NumberedListItem))
		case "to_do":
			if b.ToDo != nil {
				mark := " "
				if b.ToDo.Checked {
					mark = "x"
				}
				fmt.Fprintf(&sb, "- [%s] %s\n", mark, plainText(b.ToDo.RichText))
			}
		case "code":
			if b.Code != nil {
				lang := b.Code.Language
				if lang == "plain text" {
					lang = ""
				}
				sb.WriteString("```" + lang + "\n" + plainText(b.Code.RichText) + "\n```\n\n")
			}
		case "quote":
			for _, line := range strings.Split(blockString(b.Quote), "\n") {
				sb.WriteString("> " + line + "\n")
			}
			sb.WriteString("\n")
		case "callout", "toggle":
			var bt *blockText
			if b.Type == "callout" {
				bt = b.Callout
			} else {
				bt = b.Toggle
			}
			if text := blockString(bt); text != "" {
				sb.WriteString(text + "\n\n")
			}
		case "divider":
			sb.WriteString("---\n\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func blockString(bt *blockText) string {
	if bt == nil {
		return ""
	}
	return plainText(bt.RichText)
}
