package engine

// Engine invocation constants.
const (
	// HelperTool is the faster-whisper CLI launched through uvx.
	HelperTool = "whisper-ctranslate2"

	CUDADevice = "cuda"
	CPUDevice  = "cpu"
	AutoDevice = "auto"

	// Lower precision on GPU for speed, 8-bit quantization on CPU for memory.
	CUDAComputeType = "float16"
	CPUComputeType  = "int8"

	OutputFormat = "json"

	// ProbeTool reports CUDA availability; its absence means CPU.
	ProbeTool = "nvidia-smi"
)
