// Package health turns storcli output into a health snapshot and classifies it.
package health

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"megaraid-health-check/internal/extract"
	"megaraid-health-check/internal/provider"
	"megaraid-health-check/pkg/types"
)

// ErrControllerNotFound is returned when the tool does not know the requested controller
var ErrControllerNotFound = errors.New("controller not found")

// Service builds health snapshots for one controller
type Service struct {
	provider   provider.Provider
	controller string
	logger     *log.Entry
}

// New creates a new health service
func New(p provider.Provider, controller string) *Service {
	return &Service{
		provider:   p,
		controller: controller,
		logger:     log.WithField("controller", controller),
	}
}

// WithLogger sets the log entry used for this service
func (s *Service) WithLogger(entry *log.Entry) *Service {
	s.logger = entry.WithField("controller", s.controller)
	return s
}

// Check queries the controller and builds a fresh snapshot. Any provider
// error aborts the run. Parse failures only drop the affected dimension.
func (s *Service) Check(ctx context.Context) (*types.Snapshot, error) {
	r := &run{
		ctx:      ctx,
		provider: s.provider,
		outputs:  make(map[provider.Query]provider.Result),
		logger:   s.logger,
	}

	vds, err := r.result(provider.QueryVirtualDrives)
	if err != nil {
		return nil, err
	}
	if extract.ControllerMissing(vds.Output) {
		return nil, errors.Wrapf(ErrControllerNotFound, "controller %s", s.controller)
	}

	snap := &types.Snapshot{
		Controller: s.controller,
		Target:     s.provider.Target(),
	}
	for _, d := range dimensions {
		if err := r.collect(d, snap); err != nil {
			return nil, err
		}
	}

	s.logger.WithFields(log.Fields{
		"virtualDrives":  len(snap.VirtualDrives),
		"physicalDrives": len(snap.PhysicalDrives),
		"queries":        len(r.outputs),
		"parseMisses":    snap.ParseMisses,
	}).Debug("Snapshot built")

	return snap, nil
}

// run holds the query results of a single check. Nothing is shared between runs.
type run struct {
	ctx      context.Context
	provider provider.Provider
	outputs  map[provider.Query]provider.Result
	logger   *log.Entry
}

func (r *run) result(q provider.Query) (provider.Result, error) {
	if res, ok := r.outputs[q]; ok {
		return res, nil
	}
	res, err := r.provider.Run(r.ctx, q)
	if err != nil {
		return provider.Result{}, errors.Wrapf(err, "query %s", q)
	}
	r.outputs[q] = res
	return res, nil
}

// fetch returns the query output. ok is false when the controller does not
// support the query or printed nothing.
func (r *run) fetch(q provider.Query) (string, bool, error) {
	res, err := r.result(q)
	if err != nil {
		return "", false, err
	}
	if res.Unsupported() || res.Output == "" {
		r.logger.WithField("query", q).Debug("Query unsupported or empty")
		return "", false, nil
	}
	return res.Output, true, nil
}

func (r *run) collect(d dimension, snap *types.Snapshot) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.WithFields(log.Fields{
				"dimension": d.name,
				"panic":     fmt.Sprint(p),
			}).Warn("Failed to parse dimension, skipping")
			snap.ParseMisses = append(snap.ParseMisses, d.name)
			err = nil
		}
	}()
	return d.collect(r, snap)
}
