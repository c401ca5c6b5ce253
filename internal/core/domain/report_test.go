package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/zerr"

	"github.com/pipkin/pipkin/internal/core/domain"
)

func TestReport_Sort(t *testing.T) {
	r := &domain.Report{
		Findings: []domain.Finding{
			{Group: domain.GroupDev, Name: "tomte", Status: domain.FindingOK},
			{Group: domain.GroupDefault, Name: "requests", Status: domain.FindingOK},
			{Group: domain.GroupDev, Name: "aiohttp", Status: domain.FindingOK},
		},
	}
	r.Sort()

	assert.Equal(t, "requests", r.Findings[0].Name)
	assert.Equal(t, "aiohttp", r.Findings[1].Name)
	assert.Equal(t, "tomte", r.Findings[2].Name)
}

func TestReport_OK(t *testing.T) {
	r := &domain.Report{
		Findings: []domain.Finding{
			{Group: domain.GroupDev, Name: "grpcio", Status: domain.FindingOK, Resolved: "1.43.0"},
		},
		Runtime: &domain.RuntimeFinding{Required: "3.10", Actual: "3.10.12", Status: domain.RuntimeOK},
	}
	assert.True(t, r.OK())
	assert.NoError(t, r.Err())
}

func TestReport_Blocking(t *testing.T) {
	r := &domain.Report{
		Findings: []domain.Finding{
			{Group: domain.GroupDev, Name: "grpcio", Status: domain.FindingOK},
			{Group: domain.GroupDev, Name: "ghost", Status: domain.FindingProjectNotFound},
			{Group: domain.GroupDev, Name: "numpy", Status: domain.FindingUnsatisfiable},
		},
	}

	blocking := r.Blocking()
	assert.Len(t, blocking, 2)
	assert.False(t, r.OK())
}

func TestReport_Err_Metadata(t *testing.T) {
	r := &domain.Report{
		Findings: []domain.Finding{
			{Group: domain.GroupDev, Name: "ghost", Status: domain.FindingProjectNotFound},
		},
		Runtime: &domain.RuntimeFinding{Required: "3.10", Actual: "3.11.1", Status: domain.RuntimeMismatch},
	}

	err := r.Err()
	if err == nil {
		t.Fatal("expected error for failed report, got nil")
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	meta := zErr.Metadata()
	if count, ok := meta["blocking_findings"].(int); !ok || count != 1 {
		t.Errorf("expected metadata blocking_findings=1, got %v", meta["blocking_findings"])
	}
	if status, ok := meta["runtime"].(string); !ok || status != "mismatch" {
		t.Errorf("expected metadata runtime=mismatch, got %v", meta["runtime"])
	}
}

func TestReport_RuntimeMismatchBlocks(t *testing.T) {
	r := &domain.Report{
		Runtime: &domain.RuntimeFinding{Required: "3.10", Actual: "3.11.1", Status: domain.RuntimeMismatch},
	}
	assert.False(t, r.OK())
	assert.Error(t, r.Err())
}
