package strokemodel

import "testing"

func TestStrokeModelParamsValidate(t *testing.T) {
	valid := s2Params()
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid params to pass, got %v", err)
	}

	t.Run("negative spring mass constant", func(t *testing.T) {
		p := s2Params()
		p.Position.SpringMassConstant = -1
		if err := p.Validate(); err == nil {
			t.Error("expected error for non-positive spring_mass_constant")
		}
	})

	t.Run("inverted wobble speed bounds", func(t *testing.T) {
		p := s2Params()
		p.WobbleSmoother.SpeedFloor = 2
		p.WobbleSmoother.SpeedCeiling = 1
		if err := p.Validate(); err == nil {
			t.Error("expected error when speed_floor > speed_ceiling")
		}
	})

	t.Run("loop contraction mitigation requires stroke normal projection", func(t *testing.T) {
		p := s2Params()
		p.Position.LoopContractionMitigation = LoopContractionMitigationParams{
			Enabled:                                 true,
			SpeedLowerBound:                         0,
			SpeedUpperBound:                         1,
			InterpolationStrengthAtSpeedLowerBound:  1,
			InterpolationStrengthAtSpeedUpperBound:  0,
			MinSpeedSamplingWindow:                  0.1,
			MinDiscreteSpeedSamples:                 2,
		}
		if err := p.Validate(); err == nil {
			t.Error("expected error when loop-contraction mitigation is enabled without stroke-normal projection")
		}

		p.StylusState = StylusStateModelerParams{
			UseStrokeNormalProjection: true,
			MinInputSamples:           2,
			MinSampleDuration:         0.01,
		}
		if err := p.Validate(); err != nil {
			t.Errorf("expected valid once stroke-normal projection is also enabled, got %v", err)
		}
	})

	t.Run("kalman predictor requires its own params validated", func(t *testing.T) {
		p := s2Params()
		p.Predictor = PredictorKalman
		if err := p.Validate(); err == nil {
			t.Error("expected error for zero-valued KalmanPredictorParams")
		}
	})

	t.Run("unknown predictor kind", func(t *testing.T) {
		p := s2Params()
		p.Predictor = PredictorKind(99)
		if err := p.Validate(); err == nil {
			t.Error("expected error for unknown predictor kind")
		}
	})
}

func TestKalmanPredictorParamsValidate(t *testing.T) {
	valid := KalmanPredictorParams{
		ProcessNoise:       0.01,
		MeasurementNoise:   1,
		MinStableIteration: 4,
		MaxTimeSamples:     20,
		MinCatchupVelocity: 1,
		AccelerationWeight: 0.5,
		JerkWeight:         0.1,
		PredictionInterval: 0.025,
		Confidence: KalmanPredictorConfidenceParams{
			DesiredNumberOfSamples:     20,
			MaxEstimationDistance:      1,
			MinTravelSpeed:             0,
			MaxTravelSpeed:             1,
			MaxLinearDeviation:         1,
			BaselineLinearityConfidence: 0.4,
		},
	}
	if err := valid.validate(); err != nil {
		t.Fatalf("expected valid kalman params to pass, got %v", err)
	}

	bad := valid
	bad.Confidence.MinTravelSpeed = 2
	bad.Confidence.MaxTravelSpeed = 1
	if err := bad.validate(); err == nil {
		t.Error("expected error when min_travel_speed > max_travel_speed")
	}
}
