package main

import (
	"attestation-service/pkg/logger"
	"attestation-service/pkg/rabbitmq"
	"attestation-service/src/ed25519ix"
	"attestation-service/src/verifier"

	"github.com/gagliardetto/solana-go"
)

type AttestationServiceConfigJson struct {
	LoggerConf   logger.LoggerConfigJson     `json:"logger"`
	RabbitmqConf rabbitmq.RabbitmqConfigJson `json:"rabbitmq"`
	RestConf     RestConfigJson              `json:"rest"`
	DatabaseConf DatabaseConfigJson          `json:"database"`
	VerifierConf VerifierConfigJson          `json:"verifier"`
	SolanaConf   SolanaConfigJson            `json:"solana"`
}

func (ascj AttestationServiceConfigJson) ConvertToDomain() AttestationServiceConfig {
	return AttestationServiceConfig{
		LoggerConf:   ascj.LoggerConf.ConvertToDomain(),
		RabbitmqConf: ascj.RabbitmqConf.ConvertToDomain(),
		RestConf:     ascj.RestConf.ConvertToDomain(),
		DatabaseConf: ascj.DatabaseConf.ConvertToDomain(),
		VerifierConf: ascj.VerifierConf.ConvertToDomain(),
		SolanaConf:   ascj.SolanaConf.ConvertToDomain(),
	}
}

type AttestationServiceConfig struct {
	LoggerConf   logger.LoggerConfig
	RabbitmqConf rabbitmq.RabbitmqConfig
	RestConf     RestConfig
	DatabaseConf DatabaseConfig
	VerifierConf verifier.Config
	SolanaConf   SolanaConfig
}

type SolanaConfigJson struct {
	RpcUrl string `json:"rpc_url"`
}

type SolanaConfig struct {
	RpcUrl string
}

func (scj SolanaConfigJson) ConvertToDomain() SolanaConfig {
	return SolanaConfig{RpcUrl: scj.RpcUrl}
}

type RestConfigJson struct {
	Port uint16 `json:"port"`
}

type RestConfig struct {
	Port uint16
}

func (rcj RestConfigJson) ConvertToDomain() RestConfig {
	return RestConfig{Port: rcj.Port}
}

type DatabaseConfigJson struct {
	ConnectionString string `json:"connection_string"`
	SweepSchedule    string `json:"sweep_schedule"`
}

type DatabaseConfig struct {
	ConnectionString string
	SweepSchedule    string
}

func (dcj DatabaseConfigJson) ConvertToDomain() DatabaseConfig {
	return DatabaseConfig{
		ConnectionString: dcj.ConnectionString,
		SweepSchedule:    dcj.SweepSchedule,
	}
}

type VerifierConfigJson struct {
	SigVerifyProgramId    string `json:"sig_verify_program_id"`
	AttesterIdentity      string `json:"attester_identity"`
	MaxAgeSeconds         int64  `json:"max_age_seconds"`
	ValidityWindowSeconds int64  `json:"validity_window_seconds"`
}

func (vcj VerifierConfigJson) ConvertToDomain() verifier.Config {
	sigVerifyProgram := ed25519ix.Ed25519ProgramID
	if vcj.SigVerifyProgramId != "" {
		sigVerifyProgram = solana.MustPublicKeyFromBase58(vcj.SigVerifyProgramId)
	}

	return verifier.Config{
		SigVerifyProgramID: sigVerifyProgram,
		AttesterIdentity:   solana.MustPublicKeyFromBase58(vcj.AttesterIdentity),
		MaxAgeSeconds:      vcj.MaxAgeSeconds,
		ValidityWindow:     vcj.ValidityWindowSeconds,
	}
}
