package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvcache-codec/kvcodec/codec"
	"github.com/kvcache-codec/kvcodec/config"
	"github.com/kvcache-codec/kvcodec/sidecar"
	"github.com/kvcache-codec/kvcodec/tensor"
)

var (
	flagLayers     int
	flagTokens     int
	flagHeads      int
	flagHeadSize   int
	flagModelName  string
	flagFmt        string
	flagBatched    bool
	flagSidecar    string
	flagSeed       int64
	flagConfigPath string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Synthesize a random KV tensor and encode it, reporting blob statistics",
	RunE:  runEncode,
}

func init() {
	f := encodeCmd.Flags()
	f.IntVar(&flagLayers, "layers", 8, "number of transformer layers (L)")
	f.IntVar(&flagTokens, "tokens", 16, "chunk size (T)")
	f.IntVar(&flagHeads, "heads", 8, "attention heads (H)")
	f.IntVar(&flagHeadSize, "head-size", 64, "head dimension (D)")
	f.StringVar(&flagModelName, "model", "", "model name to look up in --config (requires --config; config.Default() is used when neither is given)")
	f.StringVar(&flagFmt, "fmt", "default", "input layout: default or huggingface")
	f.BoolVar(&flagBatched, "batched", false, "use the batched entropy-coder path")
	f.StringVar(&flagSidecar, "sidecar", "none", "sidecar compression: none, zstd, or lz4")
	f.Int64Var(&flagSeed, "seed", 1, "PRNG seed for synthetic data")
	f.StringVar(&flagConfigPath, "config", "", "YAML file of model_name -> ModelConfig (optional)")
}

func runEncode(cmd *cobra.Command, args []string) error {
	modelCfg, err := resolveModelConfig()
	if err != nil {
		return err
	}

	algo, err := parseSidecarFlag(flagSidecar)
	if err != nil {
		return err
	}

	kv := synthesizeKV(flagLayers, flagTokens, flagHeads, flagHeadSize, flagFmt, flagSeed)

	opts := []codec.Option{codec.WithSidecarCompression(algo)}
	if flagBatched {
		opts = append(opts, codec.WithBatchedEntropyCoder())
	}

	enc, err := codec.NewEncoder(opts...)
	if err != nil {
		return err
	}

	out, err := enc.Encode(kv, modelCfg, flagFmt, flagTokens)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "encoded: layers=%d tokens=%d heads=%d head_size=%d\n",
		flagLayers, flagTokens, flagHeads, flagHeadSize)
	fmt.Fprintf(os.Stderr, "bytestream: %d bytes, %d blobs\n", len(out.Bytestream), len(out.StartIndices))
	fmt.Fprintf(os.Stderr, "fingerprint: %016x\n", out.Fingerprint())

	sidecarBytes, err := out.CompressedSidecar()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "sidecar (%s): %d bytes\n", algo, len(sidecarBytes))

	return nil
}

func resolveModelConfig() (config.ModelConfig, error) {
	if flagConfigPath == "" {
		if flagModelName == "" {
			return config.Default(), nil
		}
		return config.ModelConfig{}, fmt.Errorf("--model given without --config")
	}

	reg, err := config.LoadYAMLFile(flagConfigPath)
	if err != nil {
		return config.ModelConfig{}, err
	}

	return reg.Lookup(flagModelName)
}

func synthesizeKV(layers, tokens, heads, headSize int, fmtKey string, seed int64) *tensor.KV {
	rng := rand.New(rand.NewSource(seed))

	layout := tensor.LayoutDefault
	if fmtKey == "huggingface" {
		layout = tensor.LayoutHuggingFace
	}

	n := layers * 2 * tokens * heads * headSize
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(rng.NormFloat64())
	}

	return &tensor.KV{
		Layers: layers, Tokens: tokens, Heads: heads, HeadSize: headSize,
		Layout: layout,
		Data:   data,
	}
}

func parseSidecarFlag(s string) (sidecar.Algorithm, error) {
	switch s {
	case "none":
		return sidecar.None, nil
	case "zstd":
		return sidecar.Zstd, nil
	case "lz4":
		return sidecar.LZ4, nil
	default:
		return 0, fmt.Errorf("unknown --sidecar value %q (want none, zstd, or lz4)", s)
	}
}
