package remote

import (
	"github.com/tailored-agentic-units/intelligence/core/transcript"
)

// project converts transcript entries into Responses API input items.
// Segments become one content part each; empty entries are skipped.
func project(entries []transcript.Entry) []item {
	items := make([]item, 0, len(entries))
	for _, e := range entries {
		switch e.Kind {
		case transcript.KindInstructions:
			if texts := segmentTexts(e.Segments); len(texts) > 0 {
				items = append(items, messageItem(roleDeveloper, contentInputText, texts))
			}
		case transcript.KindPrompt:
			if texts := segmentTexts(e.Segments); len(texts) > 0 {
				items = append(items, messageItem(roleUser, contentInputText, texts))
			}
		case transcript.KindResponse:
			if texts := segmentTexts(e.Segments); len(texts) > 0 {
				items = append(items, messageItem(roleAssistant, contentOutputText, texts))
			}
		case transcript.KindToolCall:
			items = append(items, functionCallItem(e.CallID, e.Name, e.Arguments))
		case transcript.KindToolOutput:
			items = append(items, functionCallOutputItem(e.CallID, e.Output))
		}
	}
	return items
}

func segmentTexts(segments []transcript.Segment) []string {
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Kind == transcript.SegmentText && s.Text != "" {
			texts = append(texts, s.Text)
		}
	}
	return texts
}

// toolParams builds the request tool list from the instruction snapshot.
func toolParams(defs []transcript.ToolDefinition) []toolParam {
	if len(defs) == 0 {
		return nil
	}
	params := make([]toolParam, 0, len(defs))
	for _, d := range defs {
		params = append(params, toolParam{
			Type:        "function",
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	return params
}
