// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package udr_test

import (
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/canonical/sdcore-udr-k8s-operator/core/status"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/database"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/udr"
)

type reconcilerSuite struct {
	testing.IsolationSuite

	relations *MockRelationStore
	database  *MockDatabaseClient
	registry  *MockRegistryClient
	container *MockContainer
	network   *MockNetworkProbe
	status    *MockStatusSetter
}

var _ = gc.Suite(&reconcilerSuite{})

func (s *reconcilerSuite) setupMocks(c *gc.C) *gomock.Controller {
	ctrl := gomock.NewController(c)
	s.relations = NewMockRelationStore(ctrl)
	s.database = NewMockDatabaseClient(ctrl)
	s.registry = NewMockRegistryClient(ctrl)
	s.container = NewMockContainer(ctrl)
	s.network = NewMockNetworkProbe(ctrl)
	s.status = NewMockStatusSetter(ctrl)
	return ctrl
}

func (s *reconcilerSuite) newReconciler(c *gc.C) *udr.Reconciler {
	r, err := udr.NewReconciler(s.config())
	c.Assert(err, jc.ErrorIsNil)
	return r
}

func (s *reconcilerSuite) config() udr.Config {
	return udr.Config{
		Relations: s.relations,
		Database:  s.database,
		Registry:  s.registry,
		Container: s.container,
		Network:   s.network,
		Status:    s.status,
		Clock:     testclock.NewClock(time.Time{}),
	}
}

func (s *reconcilerSuite) expectedConfig(c *gc.C) string {
	content, err := udr.RenderConfig(testDatabase, testNRF, testPod)
	c.Assert(err, jc.ErrorIsNil)
	return content
}

// expectGates sets up the first n readiness gates to pass.
func (s *reconcilerSuite) expectGates(n int) {
	steps := []func(){
		func() { s.relations.EXPECT().RelationExists("database").Return(true, nil) },
		func() { s.relations.EXPECT().RelationExists("fiveg_nrf").Return(true, nil) },
		func() { s.database.EXPECT().IsResourceCreated().Return(true, nil) },
		func() { s.database.EXPECT().Info().Return(testDatabase, nil) },
		func() { s.registry.EXPECT().BaseURL().Return(testNRF.BaseURL, nil) },
		func() { s.container.EXPECT().CanConnect().Return(true) },
		func() { s.container.EXPECT().Exists("/free5gc/config").Return(true, nil) },
		func() { s.network.EXPECT().PodIP().Return(testPod.IPAddress, nil) },
	}
	for _, step := range steps[:n] {
		step()
	}
}

func (s *reconcilerSuite) TestValidate(c *gc.C) {
	defer s.setupMocks(c).Finish()

	c.Assert(s.config().Validate(), jc.ErrorIsNil)

	for _, t := range []struct {
		mutate func(*udr.Config)
		err    string
	}{
		{func(cfg *udr.Config) { cfg.Relations = nil }, "nil Relations not valid"},
		{func(cfg *udr.Config) { cfg.Database = nil }, "nil Database not valid"},
		{func(cfg *udr.Config) { cfg.Registry = nil }, "nil Registry not valid"},
		{func(cfg *udr.Config) { cfg.Container = nil }, "nil Container not valid"},
		{func(cfg *udr.Config) { cfg.Network = nil }, "nil Network not valid"},
		{func(cfg *udr.Config) { cfg.Status = nil }, "nil Status not valid"},
		{func(cfg *udr.Config) { cfg.Clock = nil }, "nil Clock not valid"},
	} {
		cfg := s.config()
		t.mutate(&cfg)
		_, err := udr.NewReconciler(cfg)
		c.Check(err, jc.Satisfies, errors.IsNotValid)
		c.Check(err, gc.ErrorMatches, t.err)
	}
}

func (s *reconcilerSuite) TestGatesWithheld(c *gc.C) {
	for i, t := range []struct {
		withhold func(s *reconcilerSuite)
		expected status.StatusInfo
	}{{
		withhold: func(s *reconcilerSuite) {
			s.relations.EXPECT().RelationExists("database").Return(false, nil)
		},
		expected: status.NewBlocked("Waiting for the `database` relation to be created"),
	}, {
		withhold: func(s *reconcilerSuite) {
			s.relations.EXPECT().RelationExists("fiveg_nrf").Return(false, nil)
		},
		expected: status.NewBlocked("Waiting for the `fiveg_nrf` relation to be created"),
	}, {
		withhold: func(s *reconcilerSuite) {
			s.database.EXPECT().IsResourceCreated().Return(false, nil)
		},
		expected: status.NewWaiting("Waiting for the database to be available"),
	}, {
		withhold: func(s *reconcilerSuite) {
			s.database.EXPECT().Info().Return(database.Info{}, errors.NotFoundf("database data"))
		},
		expected: status.NewWaiting("Waiting for the database data to be available"),
	}, {
		withhold: func(s *reconcilerSuite) {
			s.registry.EXPECT().BaseURL().Return("", nil)
		},
		expected: status.NewWaiting("Waiting for the NRF to be available"),
	}, {
		withhold: func(s *reconcilerSuite) {
			s.container.EXPECT().CanConnect().Return(false)
		},
		expected: status.NewWaiting("Waiting for container to be ready"),
	}, {
		withhold: func(s *reconcilerSuite) {
			s.container.EXPECT().Exists("/free5gc/config").Return(false, nil)
		},
		expected: status.NewWaiting("Waiting for the storage to be attached"),
	}, {
		withhold: func(s *reconcilerSuite) {
			s.network.EXPECT().PodIP().Return("", nil)
		},
		expected: status.NewWaiting("Waiting for pod IP address to be available"),
	}} {
		c.Logf("test %d: %s", i, t.expected)
		ctrl := s.setupMocks(c)
		s.expectGates(i)
		t.withhold(s)
		s.status.EXPECT().SetStatus(t.expected).Return(nil)

		info, err := s.newReconciler(c).Reconcile()
		c.Check(err, jc.ErrorIsNil)
		c.Check(info, jc.DeepEquals, t.expected)
		ctrl.Finish()
	}
}

func (s *reconcilerSuite) TestFirstDeployment(c *gc.C) {
	defer s.setupMocks(c).Finish()

	content := s.expectedConfig(c)
	s.expectGates(8)
	gomock.InOrder(
		s.container.EXPECT().HasService("udr").Return(false, nil),
		s.container.EXPECT().Pull("/free5gc/config/udrcfg.yaml").Return("", errors.NotFoundf("file")),
		s.container.EXPECT().Push("/free5gc/config/udrcfg.yaml", content).Return(nil),
		s.container.EXPECT().AddOrUpdateLayer("udr", udr.ServiceLayer("1.2.3.4")).Return(nil),
	)
	s.status.EXPECT().SetStatus(status.NewActive()).Return(nil)

	info, err := s.newReconciler(c).Reconcile()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(info, jc.DeepEquals, status.NewActive())
}

func (s *reconcilerSuite) TestChangedConfigRestartsService(c *gc.C) {
	defer s.setupMocks(c).Finish()

	content := s.expectedConfig(c)
	s.expectGates(8)
	gomock.InOrder(
		s.container.EXPECT().HasService("udr").Return(true, nil),
		s.container.EXPECT().Pull("/free5gc/config/udrcfg.yaml").Return("stale", nil),
		s.container.EXPECT().Push("/free5gc/config/udrcfg.yaml", content).Return(nil),
		s.container.EXPECT().AddOrUpdateLayer("udr", udr.ServiceLayer("1.2.3.4")).Return(nil),
		s.container.EXPECT().Restart("udr").Return(nil),
	)
	s.status.EXPECT().SetStatus(status.NewActive()).Return(nil)

	_, err := s.newReconciler(c).Reconcile()
	c.Assert(err, jc.ErrorIsNil)
}

func (s *reconcilerSuite) TestUnchangedConfig(c *gc.C) {
	defer s.setupMocks(c).Finish()

	content := s.expectedConfig(c)
	s.expectGates(8)
	gomock.InOrder(
		s.container.EXPECT().HasService("udr").Return(true, nil),
		s.container.EXPECT().Pull("/free5gc/config/udrcfg.yaml").Return(content, nil),
		s.container.EXPECT().AddOrUpdateLayer("udr", udr.ServiceLayer("1.2.3.4")).Return(nil),
	)
	s.status.EXPECT().SetStatus(status.NewActive()).Return(nil)

	_, err := s.newReconciler(c).Reconcile()
	c.Assert(err, jc.ErrorIsNil)
}

func (s *reconcilerSuite) TestConfigWithoutServiceDoesNotRestart(c *gc.C) {
	defer s.setupMocks(c).Finish()

	content := s.expectedConfig(c)
	s.expectGates(8)
	gomock.InOrder(
		s.container.EXPECT().HasService("udr").Return(false, nil),
		s.container.EXPECT().Pull("/free5gc/config/udrcfg.yaml").Return("stale", nil),
		s.container.EXPECT().Push("/free5gc/config/udrcfg.yaml", content).Return(nil),
		s.container.EXPECT().AddOrUpdateLayer("udr", udr.ServiceLayer("1.2.3.4")).Return(nil),
	)
	s.status.EXPECT().SetStatus(status.NewActive()).Return(nil)

	_, err := s.newReconciler(c).Reconcile()
	c.Assert(err, jc.ErrorIsNil)
}

func (s *reconcilerSuite) TestGateError(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectGates(2)
	s.database.EXPECT().IsResourceCreated().Return(false, errors.New("boom"))

	_, err := s.newReconciler(c).Reconcile()
	c.Assert(err, gc.ErrorMatches, "checking database resource: boom")
}

func (s *reconcilerSuite) TestPushError(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectGates(8)
	s.container.EXPECT().HasService("udr").Return(true, nil)
	s.container.EXPECT().Pull("/free5gc/config/udrcfg.yaml").Return("stale", nil)
	s.container.EXPECT().Push("/free5gc/config/udrcfg.yaml", gomock.Any()).Return(errors.New("disk full"))

	_, err := s.newReconciler(c).Reconcile()
	c.Assert(err, gc.ErrorMatches, "disk full")
}

func (s *reconcilerSuite) TestSetStatusError(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.relations.EXPECT().RelationExists("database").Return(false, nil)
	s.status.EXPECT().SetStatus(gomock.Any()).Return(errors.New("status-set failed"))

	_, err := s.newReconciler(c).Reconcile()
	c.Assert(err, gc.ErrorMatches, "setting unit status: status-set failed")
}
