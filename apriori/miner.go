package apriori

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/teranos/ceka/arff"
	"github.com/teranos/ceka/errors"
)

// Miner runs Apriori and delivers the result to stdout or a file
type Miner struct {
	stdout io.Writer
	log    *zap.SugaredLogger
}

// NewMiner creates a miner writing console results to stdout.
// A nil logger disables logging.
func NewMiner(stdout io.Writer, log *zap.SugaredLogger) *Miner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Miner{stdout: stdout, log: log}
}

// Mine mines ds with cfg and writes the result where cfg says
func (m *Miner) Mine(ctx context.Context, ds *arff.Dataset, cfg Config) error {
	m.log.Debugw("Mining dataset",
		"relation", ds.Relation,
		"instances", ds.Len(),
		"support", cfg.Support,
		"confidence", cfg.Confidence,
		"apply_support", cfg.ApplySupport,
		"apply_confidence", cfg.ApplyConfidence,
		"format", cfg.Format.String(),
	)

	res, err := Run(ctx, ds, cfg)
	if err != nil {
		return err
	}
	m.log.Debugw("Mining finished", "rules", len(res.Rules), "large_itemsets", res.LargeItemsets)

	if cfg.ToStdout {
		return Write(m.stdout, res, cfg.Format)
	}
	return m.writeFile(res, cfg)
}

func (m *Miner) writeFile(res *Result, cfg Config) error {
	path := OutputPath(cfg.Path, cfg.Format)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create result file %s", path)
	}
	if err := Write(f, res, cfg.Format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to write result file %s", path)
	}

	m.log.Infow("Mining result written", "path", path)
	return nil
}
