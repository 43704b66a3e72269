package header

import "github.com/eunmann/segyio/pkg/field"

// Record sizes on disk.
const (
	BinarySize = 400
	TraceSize  = 240
)

// BinaryField is a field present in every binary file header revision.
type BinaryField struct{ def field.Def }

// Def returns the underlying field definition.
func (f BinaryField) Def() field.Def { return f.def }

func (f BinaryField) String() string { return f.def.Name }

// BinaryRev1Field is a binary file header field introduced by Rev1. Only
// *BinaryHeaderRev1 accepts it, so it cannot be applied to a Rev0 header.
type BinaryRev1Field struct{ def field.Def }

// Def returns the underlying field definition.
func (f BinaryRev1Field) Def() field.Def { return f.def }

func (f BinaryRev1Field) String() string { return f.def.Name }

// TraceField is a field present in every trace header revision.
type TraceField struct{ def field.Def }

// Def returns the underlying field definition.
func (f TraceField) Def() field.Def { return f.def }

func (f TraceField) String() string { return f.def.Name }

// TraceRev1Field is a trace header field introduced by Rev1.
type TraceRev1Field struct{ def field.Def }

// Def returns the underlying field definition.
func (f TraceRev1Field) Def() field.Def { return f.def }

func (f TraceRev1Field) String() string { return f.def.Name }

func b32(name string, off int) BinaryField { return BinaryField{field.I32(name, off)} }
func b16(name string, off int) BinaryField { return BinaryField{field.I16(name, off)} }
func t32(name string, off int) TraceField  { return TraceField{field.I32(name, off)} }
func t16(name string, off int) TraceField  { return TraceField{field.I16(name, off)} }

// Binary lists the binary file header fields common to all revisions.
// Offsets are relative to the start of the 400-byte record (file byte 3200).
var Binary = struct {
	JobID, LineNumber, ReelNumber                         BinaryField
	DataTracesPerEnsemble, AuxTracesPerEnsemble           BinaryField
	SampleInterval, SampleIntervalOriginal                BinaryField
	SamplesPerTrace, SamplesPerTraceOriginal              BinaryField
	FormatCode, EnsembleFold, TraceSorting, VerticalSum   BinaryField
	SweepFrequencyStart, SweepFrequencyEnd, SweepLength   BinaryField
	SweepType, SweepChannel, SweepTaperStart              BinaryField
	SweepTaperEnd, TaperType, CorrelatedTraces            BinaryField
	BinaryGainRecovered, AmplitudeRecovery                BinaryField
	MeasurementSystem, ImpulsePolarity, VibratoryPolarity BinaryField
}{
	JobID:                   b32("Job identification number", 0),
	LineNumber:              b32("Line number", 4),
	ReelNumber:              b32("Reel number", 8),
	DataTracesPerEnsemble:   b16("Number of data traces per ensemble", 12),
	AuxTracesPerEnsemble:    b16("Number of auxiliary traces per ensemble", 14),
	SampleInterval:          b16("Sample interval (us)", 16),
	SampleIntervalOriginal:  b16("Sample interval (us) of original field recording", 18),
	SamplesPerTrace:         b16("Number of samples per data trace", 20),
	SamplesPerTraceOriginal: b16("Number of samples per data trace (original field)", 22),
	FormatCode:              b16("Data sample format code", 24),
	EnsembleFold:            b16("Ensemble fold", 26),
	TraceSorting:            b16("Trace sorting code", 28),
	VerticalSum:             b16("Vertical sum code", 30),
	SweepFrequencyStart:     b16("Sweep frequency (Hz) at start", 32),
	SweepFrequencyEnd:       b16("Sweep frequency (Hz) at end", 34),
	SweepLength:             b16("Sweep length (ms)", 36),
	SweepType:               b16("Sweep type", 38),
	SweepChannel:            b16("Trace number of sweep channel", 40),
	SweepTaperStart:         b16("Sweep trace taper length (ms) at start", 42),
	SweepTaperEnd:           b16("Sweep trace taper length (ms) at end", 44),
	TaperType:               b16("Taper type", 46),
	CorrelatedTraces:        b16("Correlated data traces", 48),
	BinaryGainRecovered:     b16("Binary gain recovered", 50),
	AmplitudeRecovery:       b16("Amplitude recovery method", 52),
	MeasurementSystem:       b16("Measurement system", 54),
	ImpulsePolarity:         b16("Impulse signal polarity", 56),
	VibratoryPolarity:       b16("Vibratory polarity code", 58),
}

// BinaryRev1 lists the binary file header fields added by Rev1.
var BinaryRev1 = struct {
	FormatRevision, FixedLengthTraces, ExtendedTextHeaders BinaryRev1Field
}{
	FormatRevision:      BinaryRev1Field{field.I16("SEG Y format revision number", 300)},
	FixedLengthTraces:   BinaryRev1Field{field.I16("Fixed length trace flag", 302)},
	ExtendedTextHeaders: BinaryRev1Field{field.I16("Number of extended textual file headers", 304)},
}

// Trace lists the trace header fields common to all revisions.
var Trace = struct {
	SequenceInLine, SequenceInFile, FieldRecord, TraceInFieldRecord      TraceField
	EnergySourcePoint, Ensemble, TraceInEnsemble                         TraceField
	Identification, VerticallySummed, HorizontallyStacked, DataUse       TraceField
	SourceReceiverOffset, ReceiverElevation, SourceSurfaceElevation      TraceField
	SourceDepth, ReceiverDatumElevation, SourceDatumElevation            TraceField
	SourceWaterDepth, GroupWaterDepth, ElevationScalar, CoordinateScalar TraceField
	SourceX, SourceY, GroupX, GroupY, CoordinateUnits                    TraceField
	WeatheringVelocity, SubweatheringVelocity                            TraceField
	UpholeTimeSource, UpholeTimeGroup                                    TraceField
	SourceStatic, GroupStatic, TotalStatic, LagTimeA, LagTimeB           TraceField
	DelayRecordingTime, MuteStart, MuteEnd                               TraceField
	NumSamples, SampleInterval                                           TraceField
	GainType, InstrumentGain, InstrumentEarlyGain, Correlated            TraceField
	SweepFrequencyStart, SweepFrequencyEnd, SweepLength, SweepType       TraceField
	SweepTaperStart, SweepTaperEnd, TaperType                            TraceField
	AliasFilterFrequency, AliasFilterSlope                               TraceField
	NotchFilterFrequency, NotchFilterSlope                               TraceField
	LowCutFrequency, HighCutFrequency, LowCutSlope, HighCutSlope         TraceField
	Year, DayOfYear, Hour, Minute, Second, TimeBasis                     TraceField
	TraceWeighting, RollSwitchGroup, FirstTraceGroup, LastTraceGroup     TraceField
	GapSize, OverTravel                                                  TraceField
}{
	SequenceInLine:         t32("Trace sequence number within line", 0),
	SequenceInFile:         t32("Trace sequence number within SEG Y file", 4),
	FieldRecord:            t32("Original field record number", 8),
	TraceInFieldRecord:     t32("Trace number within the original field record", 12),
	EnergySourcePoint:      t32("Energy source point number", 16),
	Ensemble:               t32("Ensemble number", 20),
	TraceInEnsemble:        t32("Trace number within the ensemble", 24),
	Identification:         t16("Trace identification code", 28),
	VerticallySummed:       t16("Number of vertically summed traces", 30),
	HorizontallyStacked:    t16("Number of horizontally stacked traces", 32),
	DataUse:                t16("Data use", 34),
	SourceReceiverOffset:   t32("Distance from source point to receiver group", 36),
	ReceiverElevation:      t32("Receiver group elevation", 40),
	SourceSurfaceElevation: t32("Surface elevation at source", 44),
	SourceDepth:            t32("Source depth below surface", 48),
	ReceiverDatumElevation: t32("Datum elevation at receiver group", 52),
	SourceDatumElevation:   t32("Datum elevation at source", 56),
	SourceWaterDepth:       t32("Water depth at source", 60),
	GroupWaterDepth:        t32("Water depth at group", 64),
	ElevationScalar:        t16("Scalar for elevations and depths", 68),
	CoordinateScalar:       t16("Scalar for coordinates", 70),
	SourceX:                t32("Source coordinate X", 72),
	SourceY:                t32("Source coordinate Y", 76),
	GroupX:                 t32("Group coordinate X", 80),
	GroupY:                 t32("Group coordinate Y", 84),
	CoordinateUnits:        t16("Coordinate units", 88),
	WeatheringVelocity:     t16("Weathering velocity", 90),
	SubweatheringVelocity:  t16("Subweathering velocity", 92),
	UpholeTimeSource:       t16("Uphole time at source (ms)", 94),
	UpholeTimeGroup:        t16("Uphole time at group (ms)", 96),
	SourceStatic:           t16("Source static correction (ms)", 98),
	GroupStatic:            t16("Group static correction (ms)", 100),
	TotalStatic:            t16("Total static applied (ms)", 102),
	LagTimeA:               t16("Lag time A (ms)", 104),
	LagTimeB:               t16("Lag time B (ms)", 106),
	DelayRecordingTime:     t16("Delay recording time (ms)", 108),
	MuteStart:              t16("Mute time start (ms)", 110),
	MuteEnd:                t16("Mute time end (ms)", 112),
	NumSamples:             t16("Number of samples in this trace", 114),
	SampleInterval:         t16("Sample interval (us) for this trace", 116),
	GainType:               t16("Gain type of field instruments", 118),
	InstrumentGain:         t16("Instrument gain constant (dB)", 120),
	InstrumentEarlyGain:    t16("Instrument early or initial gain (dB)", 122),
	Correlated:             t16("Correlated", 124),
	SweepFrequencyStart:    t16("Sweep frequency at start (Hz)", 126),
	SweepFrequencyEnd:      t16("Sweep frequency at end (Hz)", 128),
	SweepLength:            t16("Sweep length (ms)", 130),
	SweepType:              t16("Sweep type", 132),
	SweepTaperStart:        t16("Sweep trace taper length at start (ms)", 134),
	SweepTaperEnd:          t16("Sweep trace taper length at end (ms)", 136),
	TaperType:              t16("Taper type", 138),
	AliasFilterFrequency:   t16("Alias filter frequency (Hz)", 140),
	AliasFilterSlope:       t16("Alias filter slope (dB/octave)", 142),
	NotchFilterFrequency:   t16("Notch filter frequency (Hz)", 144),
	NotchFilterSlope:       t16("Notch filter slope (dB/octave)", 146),
	LowCutFrequency:        t16("Low-cut frequency (Hz)", 148),
	HighCutFrequency:       t16("High-cut frequency (Hz)", 150),
	LowCutSlope:            t16("Low-cut slope (dB/octave)", 152),
	HighCutSlope:           t16("High-cut slope (dB/octave)", 154),
	Year:                   t16("Year data recorded", 156),
	DayOfYear:              t16("Day of year", 158),
	Hour:                   t16("Hour of day", 160),
	Minute:                 t16("Minute of hour", 162),
	Second:                 t16("Second of minute", 164),
	TimeBasis:              t16("Time basis code", 166),
	TraceWeighting:         t16("Trace weighting factor", 168),
	RollSwitchGroup:        t16("Geophone group number of roll switch position one", 170),
	FirstTraceGroup:        t16("Geophone group number of trace number one", 172),
	LastTraceGroup:         t16("Geophone group number of last trace", 174),
	GapSize:                t16("Gap size", 176),
	OverTravel:             t16("Over travel associated with taper", 178),
}

// TraceRev1 lists the trace header fields added by Rev1.
var TraceRev1 = struct {
	EnsembleX, EnsembleY, Inline, Crossline, Shotpoint, ShotpointScalar TraceRev1Field
	MeasurementUnit, TransductionMantissa, TransductionExponent         TraceRev1Field
	TransductionUnits, DeviceIdentifier, TimeScalar, SourceOrientation  TraceRev1Field
	SourceMeasurementMantissa, SourceMeasurementExponent                TraceRev1Field
	SourceMeasurementUnit                                               TraceRev1Field
}{
	EnsembleX:                 TraceRev1Field{field.I32("X coordinate of ensemble (CDP)", 180)},
	EnsembleY:                 TraceRev1Field{field.I32("Y coordinate of ensemble (CDP)", 184)},
	Inline:                    TraceRev1Field{field.I32("In-line number", 188)},
	Crossline:                 TraceRev1Field{field.I32("Cross-line number", 192)},
	Shotpoint:                 TraceRev1Field{field.I32("Shotpoint number", 196)},
	ShotpointScalar:           TraceRev1Field{field.I16("Scalar for shotpoint number", 200)},
	MeasurementUnit:           TraceRev1Field{field.I16("Trace value measurement unit", 202)},
	TransductionMantissa:      TraceRev1Field{field.I32("Transduction constant mantissa", 204)},
	TransductionExponent:      TraceRev1Field{field.I16("Transduction constant exponent", 208)},
	TransductionUnits:         TraceRev1Field{field.I16("Transduction units", 210)},
	DeviceIdentifier:          TraceRev1Field{field.I16("Device/trace identifier", 212)},
	TimeScalar:                TraceRev1Field{field.I16("Scalar for times", 214)},
	SourceOrientation:         TraceRev1Field{field.I16("Source type/orientation", 216)},
	SourceMeasurementMantissa: TraceRev1Field{field.I32("Source measurement mantissa", 224)},
	SourceMeasurementExponent: TraceRev1Field{field.I16("Source measurement exponent", 228)},
	SourceMeasurementUnit:     TraceRev1Field{field.I16("Source measurement unit", 230)},
}

func binaryDefs(fs ...BinaryField) []field.Def {
	defs := make([]field.Def, len(fs))
	for i, f := range fs {
		defs[i] = f.def
	}
	return defs
}

func traceDefs(fs ...TraceField) []field.Def {
	defs := make([]field.Def, len(fs))
	for i, f := range fs {
		defs[i] = f.def
	}
	return defs
}

var (
	binaryRev0Defs = binaryDefs(
		Binary.JobID, Binary.LineNumber, Binary.ReelNumber,
		Binary.DataTracesPerEnsemble, Binary.AuxTracesPerEnsemble,
		Binary.SampleInterval, Binary.SampleIntervalOriginal,
		Binary.SamplesPerTrace, Binary.SamplesPerTraceOriginal,
		Binary.FormatCode, Binary.EnsembleFold, Binary.TraceSorting, Binary.VerticalSum,
		Binary.SweepFrequencyStart, Binary.SweepFrequencyEnd, Binary.SweepLength,
		Binary.SweepType, Binary.SweepChannel, Binary.SweepTaperStart,
		Binary.SweepTaperEnd, Binary.TaperType, Binary.CorrelatedTraces,
		Binary.BinaryGainRecovered, Binary.AmplitudeRecovery,
		Binary.MeasurementSystem, Binary.ImpulsePolarity, Binary.VibratoryPolarity,
	)
	binaryRev1Defs = []field.Def{
		BinaryRev1.FormatRevision.def,
		BinaryRev1.FixedLengthTraces.def,
		BinaryRev1.ExtendedTextHeaders.def,
	}

	traceRev0Defs = traceDefs(
		Trace.SequenceInLine, Trace.SequenceInFile, Trace.FieldRecord, Trace.TraceInFieldRecord,
		Trace.EnergySourcePoint, Trace.Ensemble, Trace.TraceInEnsemble,
		Trace.Identification, Trace.VerticallySummed, Trace.HorizontallyStacked, Trace.DataUse,
		Trace.SourceReceiverOffset, Trace.ReceiverElevation, Trace.SourceSurfaceElevation,
		Trace.SourceDepth, Trace.ReceiverDatumElevation, Trace.SourceDatumElevation,
		Trace.SourceWaterDepth, Trace.GroupWaterDepth, Trace.ElevationScalar, Trace.CoordinateScalar,
		Trace.SourceX, Trace.SourceY, Trace.GroupX, Trace.GroupY, Trace.CoordinateUnits,
		Trace.WeatheringVelocity, Trace.SubweatheringVelocity,
		Trace.UpholeTimeSource, Trace.UpholeTimeGroup,
		Trace.SourceStatic, Trace.GroupStatic, Trace.TotalStatic, Trace.LagTimeA, Trace.LagTimeB,
		Trace.DelayRecordingTime, Trace.MuteStart, Trace.MuteEnd,
		Trace.NumSamples, Trace.SampleInterval,
		Trace.GainType, Trace.InstrumentGain, Trace.InstrumentEarlyGain, Trace.Correlated,
		Trace.SweepFrequencyStart, Trace.SweepFrequencyEnd, Trace.SweepLength, Trace.SweepType,
		Trace.SweepTaperStart, Trace.SweepTaperEnd, Trace.TaperType,
		Trace.AliasFilterFrequency, Trace.AliasFilterSlope,
		Trace.NotchFilterFrequency, Trace.NotchFilterSlope,
		Trace.LowCutFrequency, Trace.HighCutFrequency, Trace.LowCutSlope, Trace.HighCutSlope,
		Trace.Year, Trace.DayOfYear, Trace.Hour, Trace.Minute, Trace.Second, Trace.TimeBasis,
		Trace.TraceWeighting, Trace.RollSwitchGroup, Trace.FirstTraceGroup, Trace.LastTraceGroup,
		Trace.GapSize, Trace.OverTravel,
	)
	traceRev1Defs = []field.Def{
		TraceRev1.EnsembleX.def, TraceRev1.EnsembleY.def, TraceRev1.Inline.def, TraceRev1.Crossline.def,
		TraceRev1.Shotpoint.def, TraceRev1.ShotpointScalar.def, TraceRev1.MeasurementUnit.def,
		TraceRev1.TransductionMantissa.def, TraceRev1.TransductionExponent.def,
		TraceRev1.TransductionUnits.def, TraceRev1.DeviceIdentifier.def, TraceRev1.TimeScalar.def,
		TraceRev1.SourceOrientation.def, TraceRev1.SourceMeasurementMantissa.def,
		TraceRev1.SourceMeasurementExponent.def, TraceRev1.SourceMeasurementUnit.def,
	}

	binaryRev0Layout = field.NewLayout("binary file header (Rev0)", BinarySize, binaryRev0Defs...)
	binaryRev1Layout = binaryRev0Layout.Extend("binary file header (Rev1)", binaryRev1Defs...)
	traceRev0Layout  = field.NewLayout("trace header (Rev0)", TraceSize, traceRev0Defs...)
	traceRev1Layout  = traceRev0Layout.Extend("trace header (Rev1)", traceRev1Defs...)
)
