package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/apcera/termtables"
	cli "github.com/jawher/mow.cli"
	"github.com/xlab/closer"

	"github.com/xlab/govorbis/decoder"
)

const samplesPerChannel = 2048

var (
	app     = cli.App("vorbis-info", "Decode an OggVorbis file or URL, print its stream info, and optionally dump PCM to a WAV file.")
	uri     = app.StringArg("URI", "", "A local .ogg Vorbis file or a URL pointing to one.")
	outPath = app.StringOpt("o out", "", "Write decoded PCM to this 16-bit WAV file.")
)

func main() {
	log.SetFlags(0)
	app.Action = appRun
	app.Run(os.Args)
}

func appRun() {
	defer closer.Close()
	closer.Bind(func() {
		log.Println("Bye!")
	})

	var input io.Reader
	if strings.HasPrefix(*uri, "http://") || strings.HasPrefix(*uri, "https://") {
		resp, err := http.Get(*uri)
		if err != nil {
			log.Fatalln(err)
		}
		closer.Bind(func() {
			resp.Body.Close()
		})
		input = resp.Body
	} else {
		f, err := os.Open(*uri)
		if err != nil {
			log.Fatalln(err)
		}
		closer.Bind(func() {
			f.Close()
		})
		input = f
	}

	dec, err := decoder.New(input, samplesPerChannel)
	if err != nil {
		log.Fatalln(err)
	}
	closer.Bind(dec.Close)

	info := dec.Info()
	log.Println(fileInfoTable(info))

	dec.SetErrorHandler(func(err error) {
		log.Println("[WARN]", err)
	})

	var sink *wavWriter
	if *outPath != "" {
		sink, err = newWavWriter(*outPath, info.Channels, info.SampleRate)
		if err != nil {
			log.Fatalln(err)
		}
		closer.Bind(func() {
			if err := sink.Close(); err != nil {
				log.Println("[WARN] closing wav file:", err)
			}
		})
	}

	go func() {
		if err := dec.Decode(); err != nil {
			log.Println("[WARN] decode:", err)
		}
		dec.Close()
	}()

	var frames int
	for frame := range dec.SamplesOut() {
		frames += len(frame)
		if sink == nil {
			continue
		}
		if err := sink.WriteFrame(frame); err != nil {
			log.Fatalln("writing wav:", err)
		}
	}
	log.Printf("Decoded %d sample frames.", frames)
	if dec.HasClipped() {
		log.Println("[WARN] output clipped at least once")
	}
}

func fileInfoTable(info decoder.Info) string {
	table := termtables.CreateTable()
	table.UTF8Box()
	table.AddTitle("FILE INFO")
	for _, comment := range info.Comments {
		parts := strings.SplitN(comment, "=", 2)
		if row := table.AddRow(parts[0]); len(parts) > 1 {
			row.AddCell(parts[1])
		}
	}
	if len(info.Comments) > 0 {
		table.AddSeparator()
	}
	table.AddRow("Bitstream", fmt.Sprintf("%d channel, %dHz", info.Channels, info.SampleRate))
	if info.NominalBitrate > 0 {
		table.AddRow("Bitrate", fmt.Sprintf("%d bps nominal", info.NominalBitrate))
	}
	table.AddRow("Encoded by", info.Vendor)
	return table.Render()
}
