package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/akolanti/ConveyAPI/internal/api"
	"github.com/akolanti/ConveyAPI/internal/data/store"
	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
	"github.com/akolanti/ConveyAPI/internal/domain/jobModel"
	"github.com/akolanti/ConveyAPI/internal/job"
)

type stubPipelineService struct{}

func (stubPipelineService) ProcessDocument(ctx context.Context, j jobModel.Job) jobModel.Job {
	return j
}

func (stubPipelineService) BuildPack(ctx context.Context, j jobModel.Job) jobModel.Job {
	return j
}

func (stubPipelineService) ExtractText(ctx context.Context, doc docModel.RawDocument) docModel.ExtractedText {
	return docModel.ExtractedText{}
}

var testJobService *job.Service

// InitJobHandler is once-guarded, so every test shares one service instance.
func initTestHandler() *job.Service {
	if testJobService == nil {
		testJobService = job.InitJobService(job.ServiceConfig{
			JobChannel:        make(chan jobModel.Job, 10),
			DispatcherChannel: make(chan bool, 10),
			JobStore:          store.InitInMemoryJobStore(),
		})
		InitJobHandler(testJobService, stubPipelineService{})
	}
	return testJobService
}

func TestResolveDerivedOutputs_TwoSourceJobs(t *testing.T) {
	svc := initTestHandler()
	ctx := context.Background()

	jobs := []jobModel.Job{
		{
			Id:      "job-a",
			Status:  jobModel.JobStatusComplete,
			JobType: jobModel.JobTypeProcess,
			JobPayload: jobModel.JobPayload{
				Findings: &docModel.StructuredFindings{RawLength: 10},
				Risk:     &docModel.RiskReport{Summary: docModel.BandHigh},
			},
		},
		{
			Id:      "job-b",
			Status:  jobModel.JobStatusComplete,
			JobType: jobModel.JobTypeProcess,
			JobPayload: jobModel.JobPayload{
				Findings: &docModel.StructuredFindings{RawLength: 20},
				Risk:     &docModel.RiskReport{Summary: docModel.BandLow},
			},
		},
		{Id: "job-c", Status: jobModel.JobStatusQueued, JobType: jobModel.JobTypeProcess},
	}
	for _, j := range jobs {
		if err := svc.JobStore.SaveJob(ctx, j); err != nil {
			t.Fatalf("saving %s: %v", j.Id, err)
		}
	}

	extras := ResolveDerivedOutputs([]string{"job-a", "job-b", "job-c", "job-missing"}, "trace-1")

	// Both completed jobs keep their own outputs; neither overwrites the other.
	want := []string{"job-a-extracted.json", "job-a-risk.json", "job-b-extracted.json", "job-b-risk.json"}
	if len(extras) != len(want) {
		t.Fatalf("extras has %d entries, want %d: %v", len(extras), len(want), keysOf(extras))
	}
	for _, name := range want {
		if _, ok := extras[name]; !ok {
			t.Errorf("%s missing from extras", name)
		}
	}

	var riskA, riskB docModel.RiskReport
	if err := json.Unmarshal(extras["job-a-risk.json"], &riskA); err != nil {
		t.Fatalf("unmarshalling job-a risk: %v", err)
	}
	if err := json.Unmarshal(extras["job-b-risk.json"], &riskB); err != nil {
		t.Fatalf("unmarshalling job-b risk: %v", err)
	}
	if riskA.Summary != docModel.BandHigh || riskB.Summary != docModel.BandLow {
		t.Errorf("risk summaries = %s/%s, want High/Low", riskA.Summary, riskB.Summary)
	}
}

func TestValidatePackRequest(t *testing.T) {
	initTestHandler()

	cases := []struct {
		name  string
		title string
		files []string
		want  bool
	}{
		{"valid", "14 Mill Lane", []string{"a.pdf"}, true},
		{"missing title", "", []string{"a.pdf"}, false},
		{"no files", "14 Mill Lane", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := api.BuildPackRequest{Title: tc.title, Files: tc.files}
			if got := ValidatePackRequest(req); got != tc.want {
				t.Errorf("ValidatePackRequest = %v, want %v", got, tc.want)
			}
		})
	}
}

func keysOf(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
