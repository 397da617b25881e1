package deploy

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/corecanvas/canvas-cli/internal/chain"
	"github.com/corecanvas/canvas-cli/internal/config"
	"github.com/corecanvas/canvas-cli/internal/contract"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func addrArg(s string) common.Address { return common.HexToAddress(s) }

// Artifact is a compiled contract artifact (the hardhat output shape).
type Artifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode string          `json:"bytecode"`
}

// LoadArtifact reads a contract artifact from disk.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing artifact %s: %w", path, err)
	}
	if a.Bytecode == "" {
		return nil, fmt.Errorf("artifact %s has no bytecode", path)
	}
	return &a, nil
}

// Step deploys one contract. Args may inspect the addresses deployed so far,
// letting later contracts reference earlier ones.
type Step struct {
	Name         string
	ArtifactFile string
	Args         func(deployed map[string]string) ([]interface{}, error)
}

// Result describes the outcome of one step.
type Result struct {
	Name    string
	Address string
	Skipped bool // already in the checkpoint
	TxHash  string
}

// Orchestrator deploys a sequence of contracts, checkpointing after every
// success so an interrupted run resumes where it stopped.
type Orchestrator struct {
	client  *chain.EVMClient
	signer  contract.TxSigner
	chainID *big.Int
	cp      *config.Checkpoint
}

// NewOrchestrator creates a deploy orchestrator.
func NewOrchestrator(client *chain.EVMClient, signer contract.TxSigner, chainID int64, cp *config.Checkpoint) *Orchestrator {
	return &Orchestrator{
		client:  client,
		signer:  signer,
		chainID: big.NewInt(chainID),
		cp:      cp,
	}
}

// Run executes the steps in order. Steps whose contract is already in the
// checkpoint are skipped. On failure the checkpoint keeps everything deployed
// so far; the returned results cover the steps that completed.
func (o *Orchestrator) Run(ctx context.Context, steps []Step) ([]Result, error) {
	results := make([]Result, 0, len(steps))
	for _, step := range steps {
		if addr := o.cp.Address(step.Name); addr != "" {
			results = append(results, Result{Name: step.Name, Address: addr, Skipped: true})
			continue
		}

		res, err := o.deploy(ctx, step)
		if err != nil {
			return results, fmt.Errorf("deploying %s: %w (progress saved, rerun to resume)", step.Name, err)
		}
		if err := o.cp.Put(step.Name, res.Address); err != nil {
			return results, fmt.Errorf("saving checkpoint for %s: %w", step.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (o *Orchestrator) deploy(ctx context.Context, step Step) (Result, error) {
	artifact, err := LoadArtifact(step.ArtifactFile)
	if err != nil {
		return Result{}, err
	}

	parsed, err := abi.JSON(strings.NewReader(string(artifact.ABI)))
	if err != nil {
		return Result{}, fmt.Errorf("parsing ABI: %w", err)
	}

	data, err := hex.DecodeString(strings.TrimPrefix(artifact.Bytecode, "0x"))
	if err != nil {
		return Result{}, fmt.Errorf("decoding bytecode: %w", err)
	}

	if step.Args != nil {
		args, err := step.Args(o.cp.Addresses)
		if err != nil {
			return Result{}, err
		}
		if len(args) > 0 {
			packed, err := parsed.Pack("", args...)
			if err != nil {
				return Result{}, fmt.Errorf("packing constructor args: %w", err)
			}
			data = append(data, packed...)
		}
	}

	receipt, err := o.send(ctx, data)
	if err != nil {
		return Result{}, err
	}
	if receipt.ContractAddress == "" {
		return Result{}, fmt.Errorf("no contract address in receipt %s", receipt.Hash)
	}

	return Result{Name: step.Name, Address: receipt.ContractAddress, TxHash: receipt.Hash}, nil
}

// send broadcasts a contract-creation transaction and waits for its receipt.
func (o *Orchestrator) send(ctx context.Context, data []byte) (*chain.TxReceipt, error) {
	from := o.signer.Address()

	gas, err := o.client.EstimateGas(ctx, from, "", data, nil)
	if err != nil {
		return nil, fmt.Errorf("estimating deploy gas: %w", err)
	}

	gasPrice, err := o.client.GasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := o.client.PendingNonce(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   o.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        nil, // contract creation
		Value:     big.NewInt(0),
		Data:      data,
	})

	raw, err := o.signer.SignTx(tx, o.chainID)
	if err != nil {
		return nil, fmt.Errorf("signing deploy tx: %w", err)
	}

	hash, err := o.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("broadcasting deploy tx: %w", err)
	}

	return o.client.WaitForReceipt(ctx, hash)
}

// MarketplaceSteps returns the deployment plan for the marketplace platform:
// the profile and artwork contracts, then the marketplace with its platform
// fee (basis points).
func MarketplaceSteps(artifactsDir string, platformFeeBps int64) []Step {
	return []Step{
		{Name: contract.ArtistProfile, ArtifactFile: filepath.Join(artifactsDir, "ArtistProfile.json")},
		{Name: contract.Artwork, ArtifactFile: filepath.Join(artifactsDir, "Artwork.json")},
		{
			Name:         contract.Marketplace,
			ArtifactFile: filepath.Join(artifactsDir, "Marketplace.json"),
			Args: func(deployed map[string]string) ([]interface{}, error) {
				if deployed[contract.Artwork] == "" {
					return nil, fmt.Errorf("marketplace needs the artwork contract address")
				}
				return []interface{}{
					addrArg(deployed[contract.Artwork]),
					big.NewInt(platformFeeBps),
				}, nil
			},
		},
	}
}
