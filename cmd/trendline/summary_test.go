package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/raykavin/trendline"
	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/dataset"
	"github.com/raykavin/trendline/pkg/logger/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_BrokenChartKeepsSiblings(t *testing.T) {
	good := filepath.Join(t.TempDir(), "sm.csv")
	require.NoError(t, os.WriteFile(good, []byte("Year,Facebook,Snapchat\n2016,1860,158\n2017,2129,178\n"), 0o600))

	charts := []trendline.Chart{
		{Name: "broken", Source: filepath.Join(t.TempDir(), "missing.csv"), Rows: "year", Title: "Broken"},
		{Name: "good", Source: good, Rows: "year", Title: "Monthly Social Media Users"},
	}

	log := zerolog.NewNop()
	out := &bytes.Buffer{}

	err := summarize(context.Background(), out, log, dataset.NewLoader(log), core.DefaultLayout(), charts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 charts failed")

	assert.Contains(t, out.String(), "Monthly Social Media Users")
	assert.Contains(t, out.String(), "Facebook")
	assert.NotContains(t, out.String(), "Broken")
}

func TestSummarize_AllCharts(t *testing.T) {
	good := filepath.Join(t.TempDir(), "sm.csv")
	require.NoError(t, os.WriteFile(good, []byte("Year,Facebook\n2016,1860\n2017,2129\n"), 0o600))

	log := zerolog.NewNop()
	out := &bytes.Buffer{}

	charts := []trendline.Chart{{Name: "good", Source: good, Rows: "year", Title: "Users"}}
	require.NoError(t, summarize(context.Background(), out, log, dataset.NewLoader(log), core.DefaultLayout(), charts))
	assert.Contains(t, out.String(), "Users")
}
