package script

import (
	"strings"

	"github.com/Italoh18/silence-cut-ia/internal/types"
)

// renderPosix emits the plan as a POSIX shell script: working directory
// setup, one extract command per segment, an echo-built concat manifest, the
// concatenation, the optional background mix, and cleanup.
func renderPosix(plan types.ExportPlan, codecs codecEntry) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("# Generated by silence-cut. Do not edit.\n\n")
	b.WriteString("mkdir -p \"" + partsDir + "\"\n\n")

	for _, ex := range plan.Extracts {
		b.WriteString("ffmpeg -y -i \"" + escapePosix(ex.SourceRef) + "\"")
		b.WriteString(" -ss " + fmtSeconds(ex.StartTime))
		b.WriteString(" -t " + fmtSeconds(ex.Duration))
		b.WriteString(codecArgs(codecs))
		b.WriteString(" \"" + partsDir + "/" + ex.OutputName + "\"\n")
	}
	b.WriteString("\n")

	manifest := partsDir + "/concat_list.txt"
	b.WriteString(": > \"" + manifest + "\"\n")
	for _, name := range plan.Concat.OrderedNames {
		b.WriteString("echo \"file '" + name + "'\" >> \"" + manifest + "\"\n")
	}
	b.WriteString("ffmpeg -y -f concat -safe 0 -i \"" + manifest + "\" -c copy \"" + escapePosix(plan.Concat.OutputRef) + "\"\n")

	if plan.Mix != nil {
		b.WriteString("\nffmpeg -y -i \"" + escapePosix(plan.Mix.BaseRef) + "\"")
		b.WriteString(" -i \"" + escapePosix(plan.Mix.BackgroundRef) + "\"")
		b.WriteString(" -filter_complex \"" + mixFilter + "\"")
		if !codecs.AudioOnly {
			b.WriteString(" -map 0:v -c:v copy")
		}
		b.WriteString(" -map \"[aout]\" -c:a " + codecs.Audio)
		b.WriteString(" \"" + escapePosix(plan.Mix.OutputRef) + "\"\n")
		b.WriteString("rm -f \"" + escapePosix(plan.Mix.BaseRef) + "\"\n")
	}

	b.WriteString("\nrm -rf \"" + partsDir + "\"\n")
	b.WriteString("echo \"Export complete: " + escapePosix(finalOutput(plan)) + "\"\n")
	return b.String()
}

// finalOutput is the name the script leaves behind: the mix output when a
// background track is configured, the concat output otherwise.
func finalOutput(plan types.ExportPlan) string {
	if plan.Mix != nil {
		return plan.Mix.OutputRef
	}
	return plan.Concat.OutputRef
}

// codecArgs renders the encoder flags for an extract command. Audio-only
// formats drop the video stream.
func codecArgs(codecs codecEntry) string {
	if codecs.AudioOnly {
		return " -vn -c:a " + codecs.Audio
	}
	return " -c:v " + codecs.Video + " -c:a " + codecs.Audio
}
