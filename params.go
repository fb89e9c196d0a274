package strokemodel

import "math"

// WobbleSmootherParams tunes the wobble smoother (§4.2).
type WobbleSmootherParams struct {
	// Enabled turns wobble smoothing on or off. If false, the remaining
	// fields are ignored and Update returns its input position unmodified.
	Enabled bool

	// Timeout is the length of the moving-average window.
	Timeout Duration

	// SpeedFloor and SpeedCeiling bound the speed range over which
	// smoothing is blended out: at SpeedFloor, full smoothing applies; at
	// SpeedCeiling and above, none does.
	SpeedFloor   float64
	SpeedCeiling float64
}

func (p WobbleSmootherParams) validate() error {
	if !p.Enabled {
		return nil
	}
	if !(p.Timeout > 0) || math.IsInf(float64(p.Timeout), 0) {
		return invalidArgf("wobble_smoother_params.timeout must be positive and finite, got %v", p.Timeout)
	}
	if !finitePositiveOrZero(p.SpeedFloor) {
		return invalidArgf("wobble_smoother_params.speed_floor must be finite and >= 0, got %v", p.SpeedFloor)
	}
	if !finitePositiveOrZero(p.SpeedCeiling) {
		return invalidArgf("wobble_smoother_params.speed_ceiling must be finite and >= 0, got %v", p.SpeedCeiling)
	}
	if p.SpeedFloor > p.SpeedCeiling {
		return invalidArgf("wobble_smoother_params.speed_floor (%v) must be <= speed_ceiling (%v)", p.SpeedFloor, p.SpeedCeiling)
	}
	return nil
}

// LoopContractionMitigationParams tunes the loop-contraction mitigator
// (§4.4). Enabling it requires StylusStateModelerParams.UseStrokeNormalProjection.
type LoopContractionMitigationParams struct {
	Enabled bool

	SpeedLowerBound float64
	SpeedUpperBound float64

	InterpolationStrengthAtSpeedLowerBound float64
	InterpolationStrengthAtSpeedUpperBound float64

	MinSpeedSamplingWindow Duration
	MinDiscreteSpeedSamples int
}

func (p LoopContractionMitigationParams) validate() error {
	if !p.Enabled {
		return nil
	}
	if !finitePositiveOrZero(p.SpeedLowerBound) || !finitePositiveOrZero(p.SpeedUpperBound) {
		return invalidArgf("loop_contraction_mitigation_params speed bounds must be finite and >= 0")
	}
	if p.SpeedLowerBound > p.SpeedUpperBound {
		return invalidArgf("loop_contraction_mitigation_params.speed_lower_bound (%v) must be <= speed_upper_bound (%v)", p.SpeedLowerBound, p.SpeedUpperBound)
	}
	if !inUnitInterval(p.InterpolationStrengthAtSpeedLowerBound) || !inUnitInterval(p.InterpolationStrengthAtSpeedUpperBound) {
		return invalidArgf("loop_contraction_mitigation_params interpolation strengths must be in [0, 1]")
	}
	if p.InterpolationStrengthAtSpeedLowerBound < p.InterpolationStrengthAtSpeedUpperBound {
		return invalidArgf("loop_contraction_mitigation_params.interpolation_strength_at_speed_lower_bound (%v) must be >= interpolation_strength_at_speed_upper_bound (%v)", p.InterpolationStrengthAtSpeedLowerBound, p.InterpolationStrengthAtSpeedUpperBound)
	}
	if !(p.MinSpeedSamplingWindow > 0) {
		return invalidArgf("loop_contraction_mitigation_params.min_speed_sampling_window must be positive, got %v", p.MinSpeedSamplingWindow)
	}
	if p.MinDiscreteSpeedSamples <= 0 {
		return invalidArgf("loop_contraction_mitigation_params.min_discrete_speed_samples must be positive, got %v", p.MinDiscreteSpeedSamples)
	}
	return nil
}

// PositionModelerParams tunes the spring-mass position modeler (§4.3).
type PositionModelerParams struct {
	SpringMassConstant float64
	DragConstant       float64

	LoopContractionMitigation LoopContractionMitigationParams
}

func (p PositionModelerParams) validate() error {
	if !finitePositive(p.SpringMassConstant) {
		return invalidArgf("position_modeler_params.spring_mass_constant must be finite and > 0, got %v", p.SpringMassConstant)
	}
	if !finitePositive(p.DragConstant) {
		return invalidArgf("position_modeler_params.drag_constant must be finite and > 0, got %v", p.DragConstant)
	}
	return p.LoopContractionMitigation.validate()
}

// SamplingParams tunes output upsampling and end-of-stroke behavior (§4.3,
// §4.9).
type SamplingParams struct {
	MinOutputRate float64

	EndOfStrokeStoppingDistance  float64
	EndOfStrokeMaxIterations     int
	MaxOutputsPerCall            int

	// MaxEstimatedAngleToTraversePerInput, in (0, pi), enables the
	// angle-traversal upsampling rule. A value of 0 disables it; Validate
	// rejects any other value outside (0, pi).
	MaxEstimatedAngleToTraversePerInput float64
}

func (p SamplingParams) validate() error {
	if !finitePositive(p.MinOutputRate) {
		return invalidArgf("sampling_params.min_output_rate must be finite and > 0, got %v", p.MinOutputRate)
	}
	if !finitePositive(p.EndOfStrokeStoppingDistance) {
		return invalidArgf("sampling_params.end_of_stroke_stopping_distance must be finite and > 0, got %v", p.EndOfStrokeStoppingDistance)
	}
	if p.EndOfStrokeMaxIterations <= 0 {
		return invalidArgf("sampling_params.end_of_stroke_max_iterations must be > 0, got %v", p.EndOfStrokeMaxIterations)
	}
	if p.MaxOutputsPerCall <= 0 {
		return invalidArgf("sampling_params.max_outputs_per_call must be > 0, got %v", p.MaxOutputsPerCall)
	}
	if p.MaxEstimatedAngleToTraversePerInput != 0 {
		if math.IsNaN(p.MaxEstimatedAngleToTraversePerInput) || p.MaxEstimatedAngleToTraversePerInput <= 0 || p.MaxEstimatedAngleToTraversePerInput >= math.Pi {
			return invalidArgf("sampling_params.max_estimated_angle_to_traverse_per_input must be in (0, pi) or 0 to disable, got %v", p.MaxEstimatedAngleToTraversePerInput)
		}
	}
	return nil
}

// StylusStateModelerParams tunes the stylus-state interpolator (§4.5).
type StylusStateModelerParams struct {
	// MaxInputSamples bounds the FIFO length in simple (non-stroke-normal)
	// mode. Must be > 0 when UseStrokeNormalProjection is false.
	MaxInputSamples int

	// UseStrokeNormalProjection selects the projection method: nearest
	// point (false) or stroke-normal projection (true).
	UseStrokeNormalProjection bool

	// MinInputSamples and MinSampleDuration bound the FIFO in
	// stroke-normal mode. Both must be > 0 when UseStrokeNormalProjection
	// is true.
	MinInputSamples  int
	MinSampleDuration Duration
}

func (p StylusStateModelerParams) validate() error {
	if p.UseStrokeNormalProjection {
		if p.MinInputSamples <= 0 {
			return invalidArgf("stylus_state_modeler_params.min_input_samples must be > 0 when use_stroke_normal_projection is true, got %v", p.MinInputSamples)
		}
		if !(p.MinSampleDuration > 0) {
			return invalidArgf("stylus_state_modeler_params.min_sample_duration must be > 0 when use_stroke_normal_projection is true, got %v", p.MinSampleDuration)
		}
		return nil
	}
	if p.MaxInputSamples <= 0 {
		return invalidArgf("stylus_state_modeler_params.max_input_samples must be > 0, got %v", p.MaxInputSamples)
	}
	return nil
}

// PredictorKind selects which predictor variant StrokeModeler uses.
type PredictorKind int

const (
	// PredictorStrokeEnd runs the position modeler forward with no new
	// anchor until it rests (§4.8).
	PredictorStrokeEnd PredictorKind = iota
	// PredictorKalman uses a pair of 1-D Kalman filters plus a confidence
	// heuristic to extrapolate a short trajectory (§4.6, §4.7).
	PredictorKalman
	// PredictorDisabled means Predict always fails with FailedPrecondition.
	PredictorDisabled
)

// KalmanPredictorConfidenceParams tunes the four confidence heuristics used
// by the Kalman 2D predictor (§4.7).
type KalmanPredictorConfidenceParams struct {
	DesiredNumberOfSamples int

	MaxEstimationDistance float64

	MinTravelSpeed float64
	MaxTravelSpeed float64

	MaxLinearDeviation             float64
	BaselineLinearityConfidence float64
}

func (p KalmanPredictorConfidenceParams) validate() error {
	if p.DesiredNumberOfSamples <= 0 {
		return invalidArgf("confidence_params.desired_number_of_samples must be > 0, got %v", p.DesiredNumberOfSamples)
	}
	if !finitePositive(p.MaxEstimationDistance) {
		return invalidArgf("confidence_params.max_estimation_distance must be finite and > 0, got %v", p.MaxEstimationDistance)
	}
	if !finitePositiveOrZero(p.MinTravelSpeed) || !finitePositiveOrZero(p.MaxTravelSpeed) {
		return invalidArgf("confidence_params travel speed bounds must be finite and >= 0")
	}
	if p.MinTravelSpeed > p.MaxTravelSpeed {
		return invalidArgf("confidence_params.min_travel_speed (%v) must be <= max_travel_speed (%v)", p.MinTravelSpeed, p.MaxTravelSpeed)
	}
	if !finitePositive(p.MaxLinearDeviation) {
		return invalidArgf("confidence_params.max_linear_deviation must be finite and > 0, got %v", p.MaxLinearDeviation)
	}
	if !inUnitInterval(p.BaselineLinearityConfidence) {
		return invalidArgf("confidence_params.baseline_linearity_confidence must be in [0, 1], got %v", p.BaselineLinearityConfidence)
	}
	return nil
}

// KalmanPredictorParams tunes the Kalman-filter prediction strategy (§4.6,
// §4.7).
type KalmanPredictorParams struct {
	ProcessNoise     float64
	MeasurementNoise float64

	MinStableIteration int
	MaxTimeSamples     int

	MinCatchupVelocity float64

	AccelerationWeight float64
	JerkWeight         float64

	PredictionInterval Duration

	Confidence KalmanPredictorConfidenceParams
}

func (p KalmanPredictorParams) validate() error {
	if !finitePositive(p.ProcessNoise) {
		return invalidArgf("kalman_predictor_params.process_noise must be finite and > 0, got %v", p.ProcessNoise)
	}
	if !finitePositive(p.MeasurementNoise) {
		return invalidArgf("kalman_predictor_params.measurement_noise must be finite and > 0, got %v", p.MeasurementNoise)
	}
	if p.MinStableIteration <= 0 {
		return invalidArgf("kalman_predictor_params.min_stable_iteration must be > 0, got %v", p.MinStableIteration)
	}
	if p.MaxTimeSamples <= 0 {
		return invalidArgf("kalman_predictor_params.max_time_samples must be > 0, got %v", p.MaxTimeSamples)
	}
	if !finitePositive(p.MinCatchupVelocity) {
		return invalidArgf("kalman_predictor_params.min_catchup_velocity must be finite and > 0, got %v", p.MinCatchupVelocity)
	}
	if math.IsNaN(p.AccelerationWeight) || math.IsInf(p.AccelerationWeight, 0) {
		return invalidArgf("kalman_predictor_params.acceleration_weight must be finite, got %v", p.AccelerationWeight)
	}
	if math.IsNaN(p.JerkWeight) || math.IsInf(p.JerkWeight, 0) {
		return invalidArgf("kalman_predictor_params.jerk_weight must be finite, got %v", p.JerkWeight)
	}
	if !(p.PredictionInterval > 0) {
		return invalidArgf("kalman_predictor_params.prediction_interval must be positive, got %v", p.PredictionInterval)
	}
	return p.Confidence.validate()
}

// StrokeModelParams is the full configuration surface for a StrokeModeler.
type StrokeModelParams struct {
	WobbleSmoother WobbleSmootherParams
	Position       PositionModelerParams
	Sampling       SamplingParams
	StylusState    StylusStateModelerParams

	Predictor       PredictorKind
	KalmanPredictor KalmanPredictorParams
}

// Validate reports an error if p would be rejected by Reset.
func (p StrokeModelParams) Validate() error {
	if err := p.WobbleSmoother.validate(); err != nil {
		return err
	}
	if err := p.Position.validate(); err != nil {
		return err
	}
	if err := p.Sampling.validate(); err != nil {
		return err
	}
	if err := p.StylusState.validate(); err != nil {
		return err
	}
	if p.Position.LoopContractionMitigation.Enabled && !p.StylusState.UseStrokeNormalProjection {
		return invalidArgf("position_modeler_params.loop_contraction_mitigation_params.is_enabled requires stylus_state_modeler_params.use_stroke_normal_projection")
	}
	switch p.Predictor {
	case PredictorKalman:
		if err := p.KalmanPredictor.validate(); err != nil {
			return err
		}
	case PredictorStrokeEnd, PredictorDisabled:
		// No further parameters to validate.
	default:
		return invalidArgf("unknown predictor kind %v", p.Predictor)
	}
	return nil
}

func finitePositive(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x > 0
}

func finitePositiveOrZero(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x >= 0
}

func inUnitInterval(x float64) bool {
	return !math.IsNaN(x) && x >= 0 && x <= 1
}
