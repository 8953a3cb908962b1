package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"backgrounder/internal/config"
	"backgrounder/internal/pipeline"
	"backgrounder/internal/resume"
	"backgrounder/internal/types"
)

var (
	checkName        string
	checkCompany     string
	checkLocation    string
	checkTitle       string
	checkLinkedInURL string
	checkPhotoURL    string
	checkPhotoPath   string
	checkProvider    string
	checkResumePath  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a one-shot background check and print the report as JSON",
	Long: `Run the full aggregation pipeline for one person from the command line.
Progress is printed to stderr; the final report is written to stdout as JSON.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkName, "name", "n", "", "Full name of the person (required)")
	checkCmd.Flags().StringVarP(&checkCompany, "company", "c", "", "Current company")
	checkCmd.Flags().StringVarP(&checkLocation, "location", "l", "", "Location")
	checkCmd.Flags().StringVarP(&checkTitle, "title", "t", "", "Job title")
	checkCmd.Flags().StringVar(&checkLinkedInURL, "linkedin-url", "", "Known LinkedIn profile URL")
	checkCmd.Flags().StringVar(&checkPhotoURL, "photo-url", "", "Public photo URL for reverse image search")
	checkCmd.Flags().StringVar(&checkPhotoPath, "photo", "", "Path to a photo file (uploaded for reverse image search, requires IMGBB_API_KEY)")
	checkCmd.Flags().StringVarP(&checkProvider, "provider", "p", "", "LinkedIn provider: serpapi | browser | proxycurl | rapidapi")
	checkCmd.Flags().StringVarP(&checkResumePath, "resume", "r", "", "Path to a resume file (PDF or text)")
	_ = checkCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	settings := config.Load()
	if err := settings.Validate(); err != nil {
		return err
	}

	provider, err := types.ParseProvider(checkProvider)
	if err != nil {
		return err
	}
	req := &types.CheckRequest{
		Name:        strings.TrimSpace(checkName),
		Company:     strings.TrimSpace(checkCompany),
		Location:    strings.TrimSpace(checkLocation),
		Title:       strings.TrimSpace(checkTitle),
		LinkedInURL: strings.TrimSpace(checkLinkedInURL),
		PhotoURL:    strings.TrimSpace(checkPhotoURL),
		Provider:    provider,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	rt, err := newRuntime(ctx, settings)
	if err != nil {
		return err
	}
	defer rt.Close()

	resumeData, err := loadResume(ctx, rt, checkResumePath)
	if err != nil {
		return err
	}

	photoURL := req.PhotoURL
	if photoURL == "" && checkPhotoPath != "" {
		photoURL, err = uploadPhoto(ctx, rt, checkPhotoPath)
		if err != nil {
			return err
		}
	}

	var report *types.Report
	for ev := range rt.runner.Stream(ctx, pipeline.RunInput{
		Request:  req,
		Resume:   resumeData,
		PhotoURL: photoURL,
	}) {
		switch ev.Type {
		case pipeline.EventStatus:
			printProgress(ev.Status)
		case pipeline.EventResult:
			report = ev.Report
		}
	}
	if report == nil {
		return fmt.Errorf("check produced no report")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func loadResume(ctx context.Context, rt *runtime, path string) (*types.ResumeData, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	text, err := resume.ExtractText(data, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse resume: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Parsing resume...")
	return rt.extractor.Extract(ctx, text), nil
}

func uploadPhoto(ctx context.Context, rt *runtime, path string) (string, error) {
	if rt.photos == nil {
		return "", fmt.Errorf("--photo requires IMGBB_API_KEY to be set")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Uploading photo...")
	return rt.photos.Upload(ctx, data)
}

func printProgress(status *pipeline.ProgressEvent) {
	switch status.Step {
	case pipeline.StepSearchStart:
		fmt.Fprintln(os.Stderr, status.Label)
	case pipeline.StepTaskDone:
		mark := "done"
		if status.State == pipeline.StateError {
			mark = "FAILED"
		}
		line := fmt.Sprintf("  [%d/%d] %s: %s", status.Completed, status.Total, status.Label, mark)
		if status.Detail != "" {
			line += " (" + status.Detail + ")"
		}
		fmt.Fprintln(os.Stderr, line)
	default:
		fmt.Fprintln(os.Stderr, status.Label)
	}
}
