package script

import (
	"strings"

	"github.com/Italoh18/silence-cut-ia/internal/types"
)

// renderBatch emits the plan as a Windows batch script. Structure mirrors the
// POSIX renderer; the manifest is built from echo-appended lines and the
// script ends with a pause so a double-clicked window stays open. Filenames
// are interpolated verbatim: the batch dialect performs no escaping, a known
// limitation.
func renderBatch(plan types.ExportPlan, codecs codecEntry) string {
	var b strings.Builder
	b.WriteString("@echo off\r\n")
	b.WriteString("rem Generated by silence-cut. Do not edit.\r\n\r\n")
	// A leftover dir from an interrupted run must not make mkdir complain.
	b.WriteString("if not exist " + partsDir + " mkdir " + partsDir + "\r\n\r\n")

	for _, ex := range plan.Extracts {
		b.WriteString("ffmpeg -y -i \"" + ex.SourceRef + "\"")
		b.WriteString(" -ss " + fmtSeconds(ex.StartTime))
		b.WriteString(" -t " + fmtSeconds(ex.Duration))
		b.WriteString(codecArgs(codecs))
		b.WriteString(" \"" + partsDir + "\\" + ex.OutputName + "\"\r\n")
	}
	b.WriteString("\r\n")

	manifest := partsDir + "\\concat_list.txt"
	b.WriteString("type nul > " + manifest + "\r\n")
	for _, name := range plan.Concat.OrderedNames {
		b.WriteString("echo file '" + name + "'>> " + manifest + "\r\n")
	}
	b.WriteString("ffmpeg -y -f concat -safe 0 -i \"" + manifest + "\" -c copy \"" + plan.Concat.OutputRef + "\"\r\n")

	if plan.Mix != nil {
		b.WriteString("\r\nffmpeg -y -i \"" + plan.Mix.BaseRef + "\"")
		b.WriteString(" -i \"" + plan.Mix.BackgroundRef + "\"")
		b.WriteString(" -filter_complex \"" + mixFilter + "\"")
		if !codecs.AudioOnly {
			b.WriteString(" -map 0:v -c:v copy")
		}
		b.WriteString(" -map \"[aout]\" -c:a " + codecs.Audio)
		b.WriteString(" \"" + plan.Mix.OutputRef + "\"\r\n")
		b.WriteString("del /q \"" + plan.Mix.BaseRef + "\"\r\n")
	}

	b.WriteString("\r\nrmdir /s /q " + partsDir + "\r\n")
	b.WriteString("echo Export complete: " + finalOutput(plan) + "\r\n")
	b.WriteString("pause\r\n")
	return b.String()
}
