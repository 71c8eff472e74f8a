package llm

import (
	"context"
	"fmt"
	"strings"

	"docarch/internal/classify"
	llmclient "docarch/internal/llmClient"
	"docarch/internal/summarize"
	"docarch/internal/util/jsonutil"
)

const (
	PhaseSummarize = "summarize"
	PhaseClassify  = "classify"
)

const summarizePrompt = `You are a technical writer condensing software documentation.
Summarize the text in [INPUT JSON].text in plain prose, keeping architectural facts
(components, how they communicate, where data lives). Use between min_words and
max_words words. Do not add facts that are not in the text.
Respond with JSON only: {"summary": "<summary>"}`

const classifyPrompt = `You are a zero-shot text classifier.
For each entry of [INPUT JSON].candidate_labels, substitute it for "{}" in
[INPUT JSON].hypothesis_template and score how strongly [INPUT JSON].text entails
the resulting hypothesis. Scores are probabilities in [0,1] that sum to 1.
Return every candidate label exactly as given, sorted by descending score.
Respond with JSON only: {"labels": ["..."], "scores": [0.0]}`

// SummarizeInput is the JSON payload sent with the summarize prompt.
type SummarizeInput struct {
	Text     string `json:"text"`
	MinWords int    `json:"min_words"`
	MaxWords int    `json:"max_words"`
}

// ClassifyInput is the JSON payload sent with the classify prompt.
type ClassifyInput struct {
	Text               string   `json:"text"`
	CandidateLabels    []string `json:"candidate_labels"`
	HypothesisTemplate string   `json:"hypothesis_template"`
}

type summaryOutput struct {
	Summary string `json:"summary"`
}

// Summarizer turns an LLMClient into a summarize.Summarizer.
func Summarizer(c llmclient.LLMClient) summarize.Summarizer {
	return summarize.SummarizerFunc(func(ctx context.Context, text string, minLen, maxLen int) (string, error) {
		ctx = WithPhase(ctx, PhaseSummarize)
		raw, err := c.GenerateJSON(ctx, summarizePrompt, SummarizeInput{Text: text, MinWords: minLen, MaxWords: maxLen})
		if err != nil {
			return "", err
		}
		var out summaryOutput
		if err := jsonutil.UnmarshalFlex(raw, &out); err != nil {
			return "", fmt.Errorf("%w: %v", llmclient.ErrInvalidJSON, err)
		}
		return strings.TrimSpace(out.Summary), nil
	})
}

// Classifier turns an LLMClient into a classify.Classifier.
func Classifier(c llmclient.LLMClient) classify.Classifier {
	return classify.ClassifierFunc(func(ctx context.Context, text string, labels []string, template string) (classify.Ranking, error) {
		ctx = WithPhase(ctx, PhaseClassify)
		raw, err := c.GenerateJSON(ctx, classifyPrompt, ClassifyInput{Text: text, CandidateLabels: labels, HypothesisTemplate: template})
		if err != nil {
			return classify.Ranking{}, err
		}
		var out classify.Ranking
		if err := jsonutil.UnmarshalFlex(raw, &out); err != nil {
			return classify.Ranking{}, fmt.Errorf("%w: %v", llmclient.ErrInvalidJSON, err)
		}
		return out, nil
	})
}
