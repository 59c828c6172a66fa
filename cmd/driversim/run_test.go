package main

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/db47h/simrt"
	"github.com/db47h/simrt/trace"
)

func TestVerifyCounter(t *testing.T) {
	rec := &trace.Recorder{}
	for i := 1; i <= 3; i++ {
		rec.Commit(simrt.Stamp(i*100+50), simrt.Change{
			Array:  "cnt",
			Stamp:  simrt.Stamp(i*100 + 50),
			Index:  0,
			Value:  strconv.Itoa(i),
			Writer: "Driver",
		})
	}
	// commits of other arrays must not disturb the count
	rec.Commit(400, simrt.Change{Array: "other", Stamp: 400, Index: 0, Value: "9", Writer: "x"})

	if err := verifyCounter(rec, "cnt", 3); err != nil {
		t.Error(err)
	}
	if err := verifyCounter(rec, "cnt", 4); err == nil {
		t.Error("a short commit sequence passed verification")
	} else if want := "verify: 3 commits of cnt[0], expected 4"; err.Error() != want {
		t.Errorf("Got error %q, expected %q", err, want)
	}

	rec.Commit(450, simrt.Change{Array: "cnt", Stamp: 450, Index: 0, Value: "7", Writer: "Driver"})
	want := "verify: commit 4 of cnt[0] is 7, expected 4"
	if err := verifyCounter(rec, "cnt", 4); err == nil || err.Error() != want {
		t.Errorf("Got error %q, expected %q", err, want)
	}
}

func TestRunCommand(t *testing.T) {
	cmd := newRunCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--cycles", "3", "--quiet", "--verify", "--stats"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	want := "verified: cnt[0] committed 3 increments\n" +
		"ticks: 3  triggered: 3  idle stop: false  final stamp: 350\n"
	if got := buf.String(); got != want {
		t.Errorf("Got %q, expected %q", got, want)
	}
}
